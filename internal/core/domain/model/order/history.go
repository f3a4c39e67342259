package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// History labels that are not order statuses.
const (
	LabelPickedUp          = "PICKED_UP"
	LabelReachedStation    = "REACHED_STATION"
	LabelDeclined          = "DECLINED"
	LabelIssueReported     = "ISSUE_REPORTED"
	LabelItemStatusChanged = "ITEM_STATUS_CHANGED"
	LabelOTPGenerated      = "OTP_GENERATED"
	LabelOTPVerified       = "OTP_VERIFIED"
)

// HistoryEntry is one immutable audit record of an order.
type HistoryEntry struct {
	label     string
	at        time.Time
	actorID   kernel.UUID
	actorRole kernel.Role
	note      string
}

func NewHistoryEntry(label string, at time.Time, actorID kernel.UUID, actorRole kernel.Role, note string) HistoryEntry {
	return HistoryEntry{label: label, at: at.UTC(), actorID: actorID, actorRole: actorRole, note: note}
}

func (h HistoryEntry) Label() string          { return h.label }
func (h HistoryEntry) At() time.Time          { return h.at }
func (h HistoryEntry) ActorID() kernel.UUID   { return h.actorID }
func (h HistoryEntry) ActorRole() kernel.Role { return h.actorRole }
func (h HistoryEntry) Note() string           { return h.note }
