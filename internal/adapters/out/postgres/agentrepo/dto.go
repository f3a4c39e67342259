// Package agentrepo persists delivery agents together with their assignment log and
// earnings ledger.
package agentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type AgentDTO struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name                 string     `gorm:"column:name"`
	Available            bool       `gorm:"column:available"`
	ActiveOrderID        *uuid.UUID `gorm:"type:uuid;column:active_order_id"`
	TodayEarnings        int64      `gorm:"column:today_earnings"`
	TotalEarnings        int64      `gorm:"column:total_earnings"`
	PendingEarnings      int64      `gorm:"column:pending_earnings"`
	CashCollected        int64      `gorm:"column:cash_collected"`
	TotalDeliveries      int        `gorm:"column:total_deliveries"`
	SuccessfulDeliveries int        `gorm:"column:successful_deliveries"`
	CompletionRate       float64    `gorm:"column:completion_rate"`
	Version              int64      `gorm:"column:version"`
}

func (AgentDTO) TableName() string {
	return "delivery_agents"
}

type AssignmentDTO struct {
	AgentID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	AssignedAt time.Time `gorm:"column:assigned_at"`
}

func (AssignmentDTO) TableName() string {
	return "agent_assignments"
}

// LedgerEntryDTO is unique per order across all agents.
type LedgerEntryDTO struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	AgentID       uuid.UUID `gorm:"type:uuid;column:agent_id"`
	OrderID       uuid.UUID `gorm:"type:uuid;column:order_id"`
	Fee           int64     `gorm:"column:fee"`
	CashCollected int64     `gorm:"column:cash_collected"`
	CreditedAt    time.Time `gorm:"column:credited_at"`
}

func (LedgerEntryDTO) TableName() string {
	return "earnings_ledger_entries"
}

func fromDomain(a *agent.Agent) AgentDTO {
	dto := AgentDTO{
		ID:                   a.ID().Bytes(),
		Name:                 a.Name(),
		Available:            a.IsAvailable(),
		TodayEarnings:        a.Earnings().Today,
		TotalEarnings:        a.Earnings().Total,
		PendingEarnings:      a.Earnings().Pending,
		CashCollected:        a.Earnings().CashCollected,
		TotalDeliveries:      a.Stats().TotalDeliveries,
		SuccessfulDeliveries: a.Stats().SuccessfulDeliveries,
		CompletionRate:       a.Stats().CompletionRate,
		Version:              a.Version(),
	}
	if active := a.ActiveOrderID(); active != nil {
		raw := active.Bytes()
		dto.ActiveOrderID = &raw
	}
	return dto
}

func assignmentsFromDomain(agentID kernel.UUID, assignments []agent.Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, 0, len(assignments))
	for _, as := range assignments {
		dtos = append(dtos, AssignmentDTO{
			AgentID:    agentID.Bytes(),
			OrderID:    as.OrderID.Bytes(),
			AssignedAt: as.AssignedAt,
		})
	}
	return dtos
}

func ledgerFromDomain(agentID kernel.UUID, entries []agent.LedgerEntry) []LedgerEntryDTO {
	dtos := make([]LedgerEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, LedgerEntryDTO{
			AgentID:       agentID.Bytes(),
			OrderID:       entry.OrderID.Bytes(),
			Fee:           entry.Fee,
			CashCollected: entry.CashCollected,
			CreditedAt:    entry.CreditedAt,
		})
	}
	return dtos
}

func toDomain(dto AgentDTO, assignmentDTOs []AssignmentDTO, creditedOrderIDs []uuid.UUID) (*agent.Agent, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	snapshot := agent.Snapshot{
		ID:        id,
		Name:      dto.Name,
		Available: dto.Available,
		Earnings: agent.Earnings{
			Today:         dto.TodayEarnings,
			Total:         dto.TotalEarnings,
			Pending:       dto.PendingEarnings,
			CashCollected: dto.CashCollected,
		},
		Stats: agent.Stats{
			TotalDeliveries:      dto.TotalDeliveries,
			SuccessfulDeliveries: dto.SuccessfulDeliveries,
			CompletionRate:       dto.CompletionRate,
		},
		Version: dto.Version,
	}

	if dto.ActiveOrderID != nil {
		active, idErr := kernel.UUIDFromGoogle(*dto.ActiveOrderID)
		if idErr != nil {
			return nil, idErr
		}
		snapshot.ActiveOrderID = &active
	}
	for _, as := range assignmentDTOs {
		orderID, idErr := kernel.UUIDFromGoogle(as.OrderID)
		if idErr != nil {
			return nil, idErr
		}
		snapshot.Assignments = append(snapshot.Assignments, agent.Assignment{OrderID: orderID, AssignedAt: as.AssignedAt})
	}
	for _, raw := range creditedOrderIDs {
		orderID, idErr := kernel.UUIDFromGoogle(raw)
		if idErr != nil {
			return nil, idErr
		}
		snapshot.CreditedOrderIDs = append(snapshot.CreditedOrderIDs, orderID)
	}

	return agent.RestoreAgent(snapshot)
}
