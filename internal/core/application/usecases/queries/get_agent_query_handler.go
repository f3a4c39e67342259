package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAgentQueryHandler reads the agent straight from the tables, bypassing the aggregate.
type GetAgentQueryHandler struct {
	db *gorm.DB
}

func NewGetAgentQueryHandler(db *gorm.DB) GetAgentQueryHandler {
	return GetAgentQueryHandler{db: db}
}

func (h GetAgentQueryHandler) Handle(ctx context.Context, query GetAgentQuery) (GetAgentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAgentQueryResponse{}, err
	}

	var (
		response      GetAgentQueryResponse
		id            uuid.UUID
		activeOrderID uuid.NullUUID
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.name,
			a.available,
			a.active_order_id,
			a.today_earnings,
			a.total_earnings,
			a.pending_earnings,
			a.cash_collected,
			a.total_deliveries,
			a.successful_deliveries,
			a.completion_rate,
			(SELECT count(*) FROM agent_assignments aa WHERE aa.agent_id = a.id)
		FROM delivery_agents a
		WHERE a.id = ?
	`, query.AgentID().String()).Row()

	err := row.Scan(
		&id,
		&response.Name,
		&response.Available,
		&activeOrderID,
		&response.TodayEarnings,
		&response.TotalEarnings,
		&response.PendingEarnings,
		&response.CashCollected,
		&response.TotalDeliveries,
		&response.SuccessfulDeliveries,
		&response.CompletionRate,
		&response.Assignments,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetAgentQueryResponse{}, errs.NewObjectNotFoundError("agentID", query.AgentID())
	}
	if err != nil {
		return GetAgentQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromGoogle(id); err != nil {
		return GetAgentQueryResponse{}, err
	}
	if activeOrderID.Valid {
		orderID, idErr := kernel.UUIDFromGoogle(activeOrderID.UUID)
		if idErr != nil {
			return GetAgentQueryResponse{}, idErr
		}
		response.ActiveOrderID = &orderID
	}

	return response, nil
}
