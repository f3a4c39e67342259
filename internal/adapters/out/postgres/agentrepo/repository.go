package agentrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAgentRepository implements ports.AgentRepository using GORM.
type GormAgentRepository struct {
	db *gorm.DB
}

func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

func (r *GormAgentRepository) Add(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictError("agent", aggregate.ID().String(), "is already registered")
		}
		return err
	}
	if err := r.appendRows(ctx, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

// Update writes the agent row with a version check. Assignments already stored are
// skipped; a ledger row for an order credited elsewhere turns the whole write into a conflict.
func (r *GormAgentRepository) Update(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&AgentDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate)
	}

	if err := r.appendRows(ctx, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	return nil
}

func (r *GormAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

func (r *GormAgentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormAgentRepository) GetAllWithActiveOrder(ctx context.Context) ([]*agent.Agent, error) {
	var dtos []AgentDTO
	if err := r.db.WithContext(ctx).
		Where("active_order_id IS NOT NULL").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	agents := make([]*agent.Agent, 0, len(dtos))
	for _, dto := range dtos {
		a, err := r.hydrate(ctx, dto)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// ResetTodayEarnings is a single set-based statement; it bumps the version of every
// changed row so in-flight writers holding the old value lose their compare-and-set.
func (r *GormAgentRepository) ResetTodayEarnings(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&AgentDTO{}).
		Where("today_earnings <> 0").
		Updates(map[string]any{
			"today_earnings": 0,
			"version":        gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *GormAgentRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*agent.Agent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AgentDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("agentID", id.String())
		}
		return nil, err
	}
	return r.hydrate(ctx, dto)
}

func (r *GormAgentRepository) hydrate(ctx context.Context, dto AgentDTO) (*agent.Agent, error) {
	var assignments []AssignmentDTO
	if err := r.db.WithContext(ctx).
		Where("agent_id = ?", dto.ID).
		Order("assigned_at, order_id").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	var credited []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&LedgerEntryDTO{}).
		Where("agent_id = ?", dto.ID).
		Pluck("order_id", &credited).Error; err != nil {
		return nil, err
	}

	a, err := toDomain(dto, assignments, credited)
	if err != nil {
		return nil, fmt.Errorf("restore agent %s: %w", dto.ID, err)
	}
	return a, nil
}

func (r *GormAgentRepository) appendRows(ctx context.Context, aggregate *agent.Agent) error {
	db := r.db.WithContext(ctx)

	if assignments := assignmentsFromDomain(aggregate.ID(), aggregate.NewAssignments()); len(assignments) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignments).Error; err != nil {
			return err
		}
	}

	for _, entry := range ledgerFromDomain(aggregate.ID(), aggregate.NewLedgerEntries()) {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).Create(&entry)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewConflictError("order", entry.OrderID.String(), "has already been credited")
		}
	}
	return nil
}

func (r *GormAgentRepository) missingOrStale(ctx context.Context, aggregate *agent.Agent) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&AgentDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("agentID", aggregate.ID().String())
	}
	return errs.NewConflictError("agent", aggregate.ID().String(),
		fmt.Sprintf("was modified after version %d was read", aggregate.Version()))
}
