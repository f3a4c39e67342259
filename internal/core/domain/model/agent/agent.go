package agent

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent or RestoreAgent constructor")

// Assignment records that an order was handed to the agent.
type Assignment struct {
	OrderID    kernel.UUID
	AssignedAt time.Time
}

// Earnings are kept in integer minor currency units.
type Earnings struct {
	Today         int64
	Total         int64
	Pending       int64
	CashCollected int64
}

type Stats struct {
	TotalDeliveries      int
	SuccessfulDeliveries int
	// CompletionRate is successful/total × 100, rounded to two decimals.
	CompletionRate float64
}

// LedgerEntry is one credited delivery. An order is credited at most once.
type LedgerEntry struct {
	OrderID       kernel.UUID
	Fee           int64
	CashCollected int64
	CreditedAt    time.Time
}

// Agent is a delivery agent. It holds at most one active order and is unavailable while it does.
type Agent struct {
	id            kernel.UUID
	name          string
	available     bool
	activeOrderID *kernel.UUID
	assignments   []Assignment
	earnings      Earnings
	stats         Stats
	credited      map[kernel.UUID]struct{}
	version       int64

	newAssignments []Assignment
	newLedger      []LedgerEntry
	guard          guard.ConstructorGuard
}

// Snapshot carries the persisted state of an agent into RestoreAgent.
type Snapshot struct {
	ID               kernel.UUID
	Name             string
	Available        bool
	ActiveOrderID    *kernel.UUID
	Assignments      []Assignment
	Earnings         Earnings
	Stats            Stats
	CreditedOrderIDs []kernel.UUID
	Version          int64
}

// NewAgent registers an available agent with no history.
func NewAgent(id kernel.UUID, name string) (*Agent, error) {
	a := &Agent{
		available: true,
		credited:  make(map[kernel.UUID]struct{}),
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(a.setID(id), a.setName(name)); err != nil {
		return nil, err
	}
	return a, nil
}

func RestoreAgent(s Snapshot) (*Agent, error) {
	a := &Agent{
		available:   s.Available,
		assignments: slices.Clone(s.Assignments),
		earnings:    s.Earnings,
		stats:       s.Stats,
		credited:    make(map[kernel.UUID]struct{}, len(s.CreditedOrderIDs)),
		version:     s.Version,
		guard:       guard.NewConstructorGuard(),
	}
	for _, id := range s.CreditedOrderIDs {
		a.credited[id] = struct{}{}
	}
	if s.ActiveOrderID != nil {
		active := *s.ActiveOrderID
		a.activeOrderID = &active
	}

	if err := errors.Join(a.setID(s.ID), a.setName(s.Name)); err != nil {
		return nil, err
	}
	if a.activeOrderID != nil && a.available {
		return nil, errs.NewValueIsInvalidErrorWithCause("available",
			errors.New("an agent with an active order cannot be available"))
	}
	return a, nil
}

func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

func (a *Agent) ID() kernel.UUID           { return a.id }
func (a *Agent) Name() string              { return a.name }
func (a *Agent) IsAvailable() bool         { return a.available }
func (a *Agent) Assignments() []Assignment { return slices.Clone(a.assignments) }
func (a *Agent) Earnings() Earnings        { return a.earnings }
func (a *Agent) Stats() Stats              { return a.stats }
func (a *Agent) Version() int64            { return a.version }

// NewAssignments returns the assignments added since the agent was loaded.
func (a *Agent) NewAssignments() []Assignment {
	return slices.Clone(a.newAssignments)
}

// NewLedgerEntries returns the credits booked since the agent was loaded.
func (a *Agent) NewLedgerEntries() []LedgerEntry {
	return slices.Clone(a.newLedger)
}

// MarkPersisted forgets the pending assignment and ledger rows once they are stored.
func (a *Agent) MarkPersisted(version int64) {
	a.newAssignments = nil
	a.newLedger = nil
	a.version = version
}

func (a *Agent) ActiveOrderID() *kernel.UUID {
	if a.activeOrderID == nil {
		return nil
	}
	id := *a.activeOrderID
	return &id
}

func (a *Agent) HasCredited(orderID kernel.UUID) bool {
	_, ok := a.credited[orderID]
	return ok
}

// CanTakeOrder fails with a conflict when the agent already works on a different order.
func (a *Agent) CanTakeOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if a.activeOrderID != nil && !a.activeOrderID.IsEqual(orderID) {
		return errs.NewConflictError("agent", a.id.String(), "already has an active order")
	}
	return nil
}

// TakeOrder makes the order active. Repeating it for the same order is a no-op,
// which lets the claim follow-up be retried.
func (a *Agent) TakeOrder(orderID kernel.UUID, at time.Time) error {
	if err := a.CanTakeOrder(orderID); err != nil {
		return err
	}

	active := orderID
	a.activeOrderID = &active
	a.available = false

	if slices.ContainsFunc(a.assignments, func(as Assignment) bool { return as.OrderID.IsEqual(orderID) }) {
		return nil
	}
	assignment := Assignment{OrderID: orderID, AssignedAt: at.UTC()}
	a.assignments = append(a.assignments, assignment)
	a.newAssignments = append(a.newAssignments, assignment)
	return nil
}

// ReleaseOrder frees the agent from the order and makes it available again.
// It reports whether anything changed.
func (a *Agent) ReleaseOrder(orderID kernel.UUID) bool {
	if a.activeOrderID == nil || !a.activeOrderID.IsEqual(orderID) {
		return false
	}
	a.activeOrderID = nil
	a.available = true
	return true
}

// CreditDelivery books a successful delivery. It returns false without changes when
// the order was credited before.
func (a *Agent) CreditDelivery(orderID kernel.UUID, fee, cashCollected int64, at time.Time) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}
	if fee < 0 {
		return false, errs.NewValueIsInvalidErrorWithCause("fee", fmt.Errorf("%d is negative", fee))
	}
	if cashCollected < 0 {
		return false, errs.NewValueIsInvalidErrorWithCause("cashCollected", fmt.Errorf("%d is negative", cashCollected))
	}
	if a.HasCredited(orderID) {
		return false, nil
	}

	a.stats.TotalDeliveries++
	a.stats.SuccessfulDeliveries++
	a.recomputeRate()
	a.earnings.Today += fee
	a.earnings.Total += fee
	a.earnings.CashCollected += cashCollected

	a.credited[orderID] = struct{}{}
	a.newLedger = append(a.newLedger, LedgerEntry{
		OrderID:       orderID,
		Fee:           fee,
		CashCollected: cashCollected,
		CreditedAt:    at.UTC(),
	})
	return true, nil
}

// RecordFailedDelivery counts an attempt that ended without handover.
func (a *Agent) RecordFailedDelivery() {
	a.stats.TotalDeliveries++
	a.recomputeRate()
}

// ResetToday starts a new earnings day.
func (a *Agent) ResetToday() {
	a.earnings.Today = 0
}

func (a *Agent) recomputeRate() {
	if a.stats.TotalDeliveries == 0 {
		a.stats.CompletionRate = 0
		return
	}
	rate := float64(a.stats.SuccessfulDeliveries) / float64(a.stats.TotalDeliveries) * 100
	a.stats.CompletionRate = math.Round(rate*100) / 100
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	a.name = name
	return nil
}
