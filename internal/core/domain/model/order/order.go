package order

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Order is the aggregate root of the fulfillment lifecycle.
//
// Order follows these invariants:
//   - Has at least one item and every item names its seller
//   - Totals are consistent and subtotal equals the sum of the line totals
//   - A driver is referenced while OUT_FOR_DELIVERY, DELIVERED or RETURNED; a cancel-family
//     status keeps the driver that held the order when it was aborted
//   - OTP material exists only between generation and verification, expiry or termination
//   - Terminal statuses accept no transition except DELIVERED -> RETURNED
//   - The first arrival at a milestone is stamped once; later arrivals only append history
type Order struct {
	id            kernel.UUID
	number        string
	customerID    kernel.UUID
	items         []*Item
	delivery      DeliveryInfo
	totals        Totals
	payment       Payment
	status        Status
	fulfillment   Rollup
	driverID      *kernel.UUID
	stage         DeliveryStage
	otp           *OTPChallenge
	otpVerified   bool
	proof         *Proof
	actualStation string
	history       []HistoryEntry
	timestamps    map[string]time.Time
	createdAt     time.Time
	version       int64

	// persistedHistory is the number of history entries already stored.
	persistedHistory int
	events           []Event
	guard            guard.ConstructorGuard
}

// Snapshot carries the persisted state of an order into RestoreOrder.
type Snapshot struct {
	ID            kernel.UUID
	Number        string
	CustomerID    kernel.UUID
	Items         []*Item
	Delivery      DeliveryInfo
	Totals        Totals
	Payment       Payment
	Status        Status
	Fulfillment   Rollup
	DriverID      *kernel.UUID
	Stage         DeliveryStage
	OTP           *OTPChallenge
	OTPVerified   bool
	Proof         *Proof
	ActualStation string
	History       []HistoryEntry
	Timestamps    map[string]time.Time
	CreatedAt     time.Time
	Version       int64
}

// NewOrder places an order in PENDING on behalf of the customer.
//
// It fails with a validation error when items are empty, an item has no seller, or the
// totals are inconsistent with each other or with the items.
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	items []*Item,
	delivery DeliveryInfo,
	totals Totals,
	payment Payment,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:     Pending,
		stage:      StageNone,
		timestamps: make(map[string]time.Time),
		createdAt:  createdAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomer(customerID),
		o.setItems(items),
		o.setDelivery(delivery),
		o.setPayment(payment),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}
	if err := o.setTotals(totals); err != nil {
		return nil, err
	}

	o.appendHistory(Pending.String(), createdAt, customerID, kernel.RoleCustomer, "order placed")
	o.stamp(Pending.String(), createdAt)

	return o, nil
}

// RestoreOrder rebuilds an order read from storage.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:           s.Status,
		fulfillment:      s.Fulfillment,
		stage:            s.Stage,
		otp:              s.OTP,
		otpVerified:      s.OTPVerified,
		proof:            s.Proof,
		actualStation:    s.ActualStation,
		history:          slices.Clone(s.History),
		persistedHistory: len(s.History),
		timestamps:       maps.Clone(s.Timestamps),
		version:          s.Version,
		guard:            guard.NewConstructorGuard(),
	}
	if o.timestamps == nil {
		o.timestamps = make(map[string]time.Time)
	}
	if o.stage == "" {
		o.stage = StageNone
	}
	if s.DriverID != nil {
		driverID := *s.DriverID
		o.driverID = &driverID
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setCustomer(s.CustomerID),
		o.setItems(s.Items),
		o.setDelivery(s.Delivery),
		o.setPayment(s.Payment),
		o.setCreatedAt(s.CreatedAt),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if err := o.setTotals(s.Totals); err != nil {
		return nil, err
	}
	if err := o.validateDriver(); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID           { return o.id }
func (o *Order) Number() string            { return o.number }
func (o *Order) CustomerID() kernel.UUID   { return o.customerID }
func (o *Order) Items() []*Item            { return slices.Clone(o.items) }
func (o *Order) Delivery() DeliveryInfo    { return o.delivery }
func (o *Order) Totals() Totals            { return o.totals }
func (o *Order) Payment() Payment          { return o.payment }
func (o *Order) Status() Status            { return o.status }
func (o *Order) Fulfillment() Rollup       { return o.fulfillment }
func (o *Order) Stage() DeliveryStage      { return o.stage }
func (o *Order) OTPVerified() bool         { return o.otpVerified }
func (o *Order) ActualStation() string     { return o.actualStation }
func (o *Order) History() []HistoryEntry   { return slices.Clone(o.history) }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) Version() int64            { return o.version }

// Timestamps maps milestone labels to their first occurrence.
func (o *Order) Timestamps() map[string]time.Time {
	return maps.Clone(o.timestamps)
}

// DriverID returns the assigned driver or nil.
func (o *Order) DriverID() *kernel.UUID {
	if o.driverID == nil {
		return nil
	}
	id := *o.driverID
	return &id
}

// OTP returns the pending one-time code challenge or nil.
func (o *Order) OTP() *OTPChallenge {
	if o.otp == nil {
		return nil
	}
	c := *o.otp
	return &c
}

// Proof returns the recorded delivery proof or nil.
func (o *Order) Proof() *Proof {
	if o.proof == nil {
		return nil
	}
	p := *o.proof
	return &p
}

// TimestampOf returns the first time the order reached a milestone.
func (o *Order) TimestampOf(label string) (time.Time, bool) {
	at, ok := o.timestamps[label]
	return at, ok
}

// NewHistory returns the history entries appended since the order was loaded.
func (o *Order) NewHistory() []HistoryEntry {
	return slices.Clone(o.history[o.persistedHistory:])
}

// MarkPersisted records that storage now holds the current history at the given version.
func (o *Order) MarkPersisted(version int64) {
	o.persistedHistory = len(o.history)
	o.version = version
}

// PullEvents hands over the events raised so far and forgets them.
func (o *Order) PullEvents() []Event {
	events := o.events
	o.events = nil
	return events
}

// Item looks up a line item by id.
func (o *Order) Item(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.id.IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("itemId", itemID.String())
}

// HasSeller reports whether any item of the order belongs to the seller.
func (o *Order) HasSeller(sellerID kernel.UUID) bool {
	return slices.ContainsFunc(o.items, func(item *Item) bool {
		return item.sellerID.IsEqual(sellerID)
	})
}

// IsAssignedTo reports whether the agent is the order's driver.
func (o *Order) IsAssignedTo(agentID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(agentID)
}

// TransitionStatus moves the order along the status graph and records the step.
//
// Self-transitions of a non-terminal status are accepted: history is appended while the
// milestone timestamp keeps its first value. OUT_FOR_DELIVERY needs an assigned driver and
// DELIVERED needs recorded proof.
func (o *Order) TransitionStatus(to Status, actor kernel.Actor, note string, at time.Time) error {
	if err := o.status.CanTransitionTo(to); err != nil {
		return err
	}
	if to == OutForDelivery && o.driverID == nil {
		return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), to.String(),
			errors.New("an assigned driver is required"))
	}
	if to == Delivered && o.proof == nil {
		return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), to.String(),
			errors.New("delivery proof is required"))
	}

	o.status = to
	if to.IsTerminal() {
		o.otp = nil
	}
	o.appendHistory(to.String(), at, actor.ID(), actor.Role(), note)
	o.stamp(to.String(), at)
	return nil
}

// ChangeStatus applies a status change requested through the order management surface.
//
// Admins may request any transition the graph allows. Customers may cancel their own order
// while it is PENDING or CONFIRMED. Sellers with items in the order may confirm or reject it
// while it is PENDING. Other actors are refused.
func (o *Order) ChangeStatus(to Status, actor kernel.Actor, note string, at time.Time) error {
	if err := o.authorizeStatusChange(to, actor); err != nil {
		return err
	}
	return o.TransitionStatus(to, actor, note, at)
}

func (o *Order) authorizeStatusChange(to Status, actor kernel.Actor) error {
	resource := "order " + o.id.String()
	switch actor.Role() {
	case kernel.RoleAdmin:
		return nil
	case kernel.RoleCustomer:
		if !actor.ID().IsEqual(o.customerID) {
			return errs.NewUnauthorizedError(actor.ID().String(), resource)
		}
		if to != Cancelled {
			return errs.NewUnauthorizedErrorWithCause(actor.ID().String(), resource,
				fmt.Errorf("customers may only cancel, not move to %s", to))
		}
		if o.status != Pending && o.status != Confirmed {
			return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), to.String(),
				errors.New("customers may cancel only before preparation starts"))
		}
		return nil
	case kernel.RoleSeller:
		if !o.HasSeller(actor.ID()) {
			return errs.NewUnauthorizedError(actor.ID().String(), resource)
		}
		if to != Confirmed && to != Rejected {
			return errs.NewUnauthorizedErrorWithCause(actor.ID().String(), resource,
				fmt.Errorf("sellers may only confirm or reject, not move to %s", to))
		}
		if o.status != Pending {
			return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), to.String(),
				errors.New("sellers decide only on pending orders"))
		}
		return nil
	default:
		return errs.NewUnauthorizedError(actor.ID().String(), resource)
	}
}

// SetItemStatus lets the owning seller move one item and rolls the change up into the order.
//
// The rollup is always recorded. A confirmed order whose rollup target lies ahead on the main
// chain walks the direct edges up to it; a PENDING order waits for its confirm decision.
// The order never moves backwards through this path.
func (o *Order) SetItemStatus(itemID kernel.UUID, status ItemStatus, actor kernel.Actor, note string, at time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), o.status.String(),
			errors.New("items of a terminal order are frozen"))
	}

	item, err := o.Item(itemID)
	if err != nil {
		return err
	}
	if !status.CanBeSetBy(actor.Role()) {
		return errs.NewUnauthorizedErrorWithCause(actor.ID().String(), "item "+itemID.String(),
			fmt.Errorf("role %s cannot set item status", actor.Role()))
	}
	if actor.Is(kernel.RoleSeller) && !item.sellerID.IsEqual(actor.ID()) {
		return errs.NewUnauthorizedError(actor.ID().String(), "item "+itemID.String())
	}

	item.status = status
	if note = strings.TrimSpace(note); note != "" {
		item.note = note
	}
	o.appendHistory(LabelItemStatusChanged, at, actor.ID(), actor.Role(),
		fmt.Sprintf("item %s set to %s", itemID, status))

	return o.applyRollup(actor, at)
}

func (o *Order) applyRollup(actor kernel.Actor, at time.Time) error {
	statuses := make([]ItemStatus, 0, len(o.items))
	for _, item := range o.items {
		statuses = append(statuses, item.status)
	}

	rollup := ComputeAggregateStatus(statuses)
	if rollup == Unchanged {
		return nil
	}
	o.fulfillment = rollup

	target, ok := rollup.TargetStatus()
	if !ok || o.status.chainIndex() < Confirmed.chainIndex() {
		return nil
	}
	for o.status.chainIndex() >= 0 && o.status.chainIndex() < target.chainIndex() {
		next, _ := o.status.next()
		if err := o.TransitionStatus(next, actor, "items "+rollup.String(), at); err != nil {
			return err
		}
	}
	return nil
}

// Claim hands a ready, unassigned order to the agent. The storage layer repeats the same
// condition atomically; this check only rejects requests that are already stale.
func (o *Order) Claim(agent kernel.Actor, at time.Time) error {
	if !agent.Is(kernel.RoleAgent) {
		return errs.NewUnauthorizedErrorWithCause(agent.ID().String(), "order "+o.id.String(),
			errors.New("only delivery agents can claim orders"))
	}
	if o.driverID != nil {
		return errs.NewConflictError("order", o.id.String(), "already assigned to another driver")
	}
	if o.status != ReadyForPickup {
		return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), OutForDelivery.String(),
			errors.New("only orders ready for pickup can be claimed"))
	}

	driverID := agent.ID()
	o.driverID = &driverID
	o.stage = StageAssigned
	if err := o.TransitionStatus(OutForDelivery, agent, "claimed", at); err != nil {
		o.driverID = nil
		o.stage = StageNone
		return err
	}

	o.raise(EventAccepted, at)
	return nil
}

// Decline records that an agent passed on the order; the order stays where it is.
func (o *Order) Decline(agent kernel.Actor, reason string, at time.Time) error {
	if !agent.Is(kernel.RoleAgent) {
		return errs.NewUnauthorizedErrorWithCause(agent.ID().String(), "order "+o.id.String(),
			errors.New("only delivery agents can decline orders"))
	}
	if o.driverID != nil && !o.driverID.IsEqual(agent.ID()) {
		return errs.NewUnauthorizedError(agent.ID().String(), "order "+o.id.String())
	}

	o.appendHistory(LabelDeclined, at, agent.ID(), agent.Role(), reason)
	return nil
}

// ReportIssue lets the assigned driver annotate a delivery problem.
func (o *Order) ReportIssue(driver kernel.Actor, note string, at time.Time) error {
	if err := o.requireDriver(driver); err != nil {
		return err
	}
	if strings.TrimSpace(note) == "" {
		return errs.NewValueIsRequiredError("note")
	}

	o.appendHistory(LabelIssueReported, at, driver.ID(), driver.Role(), note)
	return nil
}

// MarkPickedUp records that the driver collected the parcel.
func (o *Order) MarkPickedUp(driver kernel.Actor, at time.Time) error {
	if err := o.requireDriver(driver); err != nil {
		return err
	}
	if o.status != OutForDelivery || o.stage != StageAssigned {
		return errs.NewInvalidTransitionError("delivery", o.stage.String(), StagePickedUp.String())
	}

	o.stage = StagePickedUp
	o.appendHistory(LabelPickedUp, at, driver.ID(), driver.Role(), "")
	o.stamp(LabelPickedUp, at)
	o.raise(EventPickedUp, at)
	return nil
}

// MarkReachedStation records the station the driver actually reached, which may
// differ from the planned one.
func (o *Order) MarkReachedStation(driver kernel.Actor, station string, at time.Time) error {
	if err := o.requireDriver(driver); err != nil {
		return err
	}
	station = strings.TrimSpace(station)
	if station == "" {
		return errs.NewValueIsRequiredError("station")
	}
	if o.status != OutForDelivery || o.stage != StagePickedUp {
		return errs.NewInvalidTransitionError("delivery", o.stage.String(), StageReachedStation.String())
	}

	o.stage = StageReachedStation
	o.actualStation = station
	o.appendHistory(LabelReachedStation, at, driver.ID(), driver.Role(), station)
	o.stamp(LabelReachedStation, at)
	return nil
}

// Deliver completes the handover. OTP proof needs a prior successful VerifyOTP;
// PHOTO and SIGNATURE proofs stand on their own.
func (o *Order) Deliver(driver kernel.Actor, proof Proof, at time.Time) error {
	if err := o.requireDriver(driver); err != nil {
		return err
	}
	if _, err := NewProof(proof.kind, proof.reference); err != nil {
		return err
	}

	fromStation := o.stage == StageReachedStation
	direct := o.stage == StagePickedUp && o.delivery.Type() == DeliveryHome
	if o.status != OutForDelivery || !(fromStation || direct) {
		return errs.NewInvalidTransitionError("delivery", o.stage.String(), StageDelivered.String())
	}
	if proof.kind == ProofOTP && !o.otpVerified {
		return errs.NewInvalidTransitionErrorWithCause("delivery", o.stage.String(), StageDelivered.String(),
			errors.New("the one-time code has not been verified"))
	}

	o.proof = &proof
	if err := o.TransitionStatus(Delivered, driver, string(proof.kind), at); err != nil {
		o.proof = nil
		return err
	}
	o.stage = StageDelivered
	o.raise(EventDelivered, at)
	return nil
}

// SetOTP stores a freshly issued challenge, replacing any previous one.
// The customer, the assigned driver and admins may request a code.
func (o *Order) SetOTP(challenge OTPChallenge, actor kernel.Actor, at time.Time) error {
	if err := o.requireOTPParticipant(actor, true); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), LabelOTPGenerated,
			errors.New("no code can be issued for a closed order"))
	}
	if _, err := NewOTPChallenge(challenge.hash, challenge.expiresAt); err != nil {
		return err
	}

	o.otp = &challenge
	o.otpVerified = false
	o.appendHistory(LabelOTPGenerated, at, actor.ID(), actor.Role(), "")
	return nil
}

// VerifyOTP consumes the stored challenge.
//
// An expired challenge is cleared and reported with an expired error; a wrong code, or no
// stored challenge at all, yields a mismatch error. Success clears the challenge, so the
// same code cannot be used twice.
func (o *Order) VerifyOTP(code string, matcher CodeMatcher, actor kernel.Actor, now time.Time) error {
	if err := o.requireOTPParticipant(actor, false); err != nil {
		return err
	}
	if o.otp == nil {
		return errs.NewMismatchError("otp")
	}
	if o.otp.isExpired(now) {
		expiredAt := o.otp.expiresAt
		o.otp = nil
		return errs.NewExpiredError("otp", expiredAt)
	}
	if !matcher.Matches(o.otp.hash, strings.TrimSpace(code)) {
		return errs.NewMismatchError("otp")
	}

	o.otp = nil
	o.otpVerified = true
	o.appendHistory(LabelOTPVerified, now, actor.ID(), actor.Role(), "")
	return nil
}

func (o *Order) requireDriver(actor kernel.Actor) error {
	if !actor.Is(kernel.RoleAgent) || !o.IsAssignedTo(actor.ID()) {
		return errs.NewUnauthorizedErrorWithCause(actor.ID().String(), "order "+o.id.String(),
			errors.New("only the assigned driver may do this"))
	}
	return nil
}

func (o *Order) requireOTPParticipant(actor kernel.Actor, customerAllowed bool) error {
	switch {
	case actor.Is(kernel.RoleAdmin):
		return nil
	case actor.Is(kernel.RoleAgent) && o.IsAssignedTo(actor.ID()):
		return nil
	case customerAllowed && actor.Is(kernel.RoleCustomer) && actor.ID().IsEqual(o.customerID):
		return nil
	default:
		return errs.NewUnauthorizedError(actor.ID().String(), "order "+o.id.String())
	}
}

func (o *Order) appendHistory(label string, at time.Time, actorID kernel.UUID, role kernel.Role, note string) {
	o.history = append(o.history, NewHistoryEntry(label, at, actorID, role, note))
}

func (o *Order) stamp(label string, at time.Time) {
	if _, ok := o.timestamps[label]; ok {
		return
	}
	o.timestamps[label] = at.UTC()
}

func (o *Order) raise(eventType EventType, at time.Time) {
	o.events = append(o.events, Event{Type: eventType, OrderID: o.id, OccurredAt: at.UTC()})
}

func (o *Order) validateDriver() error {
	switch {
	case o.driverID == nil && o.status.RequiresDriver():
		return errs.NewValueIsRequiredErrorWithCause("driverId", fmt.Errorf("%s orders need a driver", o.status))
	case o.driverID != nil && !o.status.RequiresDriver() && !o.status.IsCancelFamily():
		return errs.NewValueIsInvalidErrorWithCause("driverId", fmt.Errorf("%s orders cannot have a driver", o.status))
	case o.status == Delivered && o.proof == nil:
		return errs.NewValueIsRequiredErrorWithCause("proof", errors.New("delivered orders need proof"))
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if err := ValidateNumber(number); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setCustomer(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %s appears twice", item.id))
		}
		seen[item.id] = struct{}{}
	}
	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setDelivery(delivery DeliveryInfo) error {
	if err := delivery.Validate(); err != nil {
		return err
	}
	o.delivery = delivery
	return nil
}

func (o *Order) setTotals(totals Totals) error {
	var sum int64
	for _, item := range o.items {
		sum += item.LineTotal()
	}
	if totals.subtotal != sum {
		return errs.NewValueIsInvalidErrorWithCause("totals",
			fmt.Errorf("subtotal %d does not equal the item total %d", totals.subtotal, sum))
	}
	if totals.final != totals.subtotal+totals.tax+totals.delivery-totals.discount {
		return errs.NewValueIsInvalidErrorWithCause("totals", errors.New("totals are inconsistent"))
	}
	o.totals = totals
	return nil
}

func (o *Order) setPayment(payment Payment) error {
	if _, err := NewPayment(payment.method, payment.status); err != nil {
		return err
	}
	o.payment = payment
	return nil
}

func (o *Order) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = at.UTC()
	return nil
}
