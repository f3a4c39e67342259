package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPageSize is the number of rows ListAvailable fetches per round trip.
const DefaultPageSize = 50

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db       *gorm.DB
	tracker  aggregateTracker
	pageSize int
}

// aggregateTracker collects the orders written in a unit of work so their events can be
// published after commit.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a repository. tracker may be nil for read-only use;
// a non-positive pageSize selects DefaultPageSize.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker, pageSize int) *GormOrderRepository {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &GormOrderRepository{db: db, tracker: tracker, pageSize: pageSize}
}

// Add inserts the order, its items and its initial history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	db := r.db.WithContext(ctx)

	if err := db.Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictError("order", aggregate.ID().String(),
				"violates "+pgerr.Constraint(err))
		}
		return err
	}
	items := itemsFromDomain(aggregate)
	if err := db.Create(&items).Error; err != nil {
		return err
	}
	if err := r.insertHistory(ctx, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	r.track(aggregate)
	return nil
}

// Update writes the order row and item statuses if nobody else changed the order since it
// was read, then appends the new history entries.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "number", "customer_id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate)
	}

	for _, item := range itemsFromDomain(aggregate) {
		if err := db.Model(&ItemDTO{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{"status": item.Status, "note": item.Note}).Error; err != nil {
			return err
		}
	}
	if err := r.insertHistory(ctx, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	r.track(aggregate)
	return nil
}

// Claim performs the conditional write that makes at most one concurrent claim succeed.
// Only the claim columns are written and the claim stamp is merged into the stored
// timestamps, where an existing stamp wins. The row version moves forward so that any
// writer holding an older copy loses its compare-and-set.
func (r *GormOrderRepository) Claim(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	driverID := aggregate.DriverID()
	if driverID == nil {
		return errs.NewValueIsRequiredError("assignedDriverID")
	}

	claimedAt, ok := aggregate.TimestampOf(order.OutForDelivery.String())
	if !ok {
		return errs.NewValueIsRequiredError("timestamps." + order.OutForDelivery.String())
	}

	var versions []int64
	err := r.db.WithContext(ctx).Raw(`
		UPDATE orders
		SET status = ?,
			assigned_driver_id = ?,
			delivery_stage = ?,
			timestamps = jsonb_build_object(?::text, ?::text) || timestamps,
			version = version + 1
		WHERE id = ?
			AND status = ?
			AND assigned_driver_id IS NULL
		RETURNING version
	`,
		aggregate.Status().String(),
		driverID.Bytes(),
		aggregate.Stage().String(),
		order.OutForDelivery.String(),
		claimedAt.UTC().Format(time.RFC3339Nano),
		aggregate.ID().Bytes(),
		order.ReadyForPickup.String(),
	).Scan(&versions).Error
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return errs.NewConflictError("order", aggregate.ID().String(), "is already assigned to another driver")
	}

	if err = r.insertHistory(ctx, aggregate); err != nil {
		return err
	}

	aggregate.MarkPersisted(versions[0])
	r.track(aggregate)
	return nil
}

// AppendHistory stores annotations that leave the order row untouched.
func (r *GormOrderRepository) AppendHistory(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := r.insertHistory(ctx, aggregate); err != nil {
		return err
	}
	aggregate.MarkPersisted(aggregate.Version())
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// ListAvailable pages through claimable orders with a (created_at, id) keyset, so rows
// claimed between pages never shift the window.
func (r *GormOrderRepository) ListAvailable(ctx context.Context) iter.Seq2[*order.Order, error] {
	return func(yield func(*order.Order, error) bool) {
		var last *OrderDTO
		for {
			query := r.db.WithContext(ctx).
				Where("status = ? AND assigned_driver_id IS NULL", order.ReadyForPickup.String())
			if last != nil {
				query = query.Where("(created_at, id) > (?, ?)", last.CreatedAt, last.ID)
			}

			var page []OrderDTO
			if err := query.Order("created_at, id").Limit(r.pageSize).Find(&page).Error; err != nil {
				yield(nil, err)
				return
			}

			orders, err := r.hydrate(ctx, page)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, o := range orders {
				if !yield(o, nil) {
					return
				}
			}

			if len(page) < r.pageSize {
				return
			}
			last = &page[len(page)-1]
		}
	}
}

func (r *GormOrderRepository) GetAllOutForDelivery(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", order.OutForDelivery.String()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, dtos)
}

func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderID", id.String())
		}
		return nil, err
	}

	orders, err := r.hydrate(ctx, []OrderDTO{dto})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// hydrate loads items and history for a batch of order rows with one query per table.
func (r *GormOrderRepository) hydrate(ctx context.Context, dtos []OrderDTO) ([]*order.Order, error) {
	if len(dtos) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}

	var items []ItemDTO
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("order_id, position").
		Find(&items).Error; err != nil {
		return nil, err
	}
	var history []HistoryDTO
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", ids).
		Order("id").
		Find(&history).Error; err != nil {
		return nil, err
	}

	itemsByOrder := make(map[uuid.UUID][]ItemDTO, len(dtos))
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	historyByOrder := make(map[uuid.UUID][]HistoryDTO, len(dtos))
	for _, entry := range history {
		historyByOrder[entry.OrderID] = append(historyByOrder[entry.OrderID], entry)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto, itemsByOrder[dto.ID], historyByOrder[dto.ID])
		if err != nil {
			return nil, fmt.Errorf("restore order %s: %w", dto.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) insertHistory(ctx context.Context, aggregate *order.Order) error {
	entries := aggregate.NewHistory()
	if len(entries) == 0 {
		return nil
	}
	dtos := historyFromDomain(aggregate.ID(), entries)
	return r.db.WithContext(ctx).Create(&dtos).Error
}

func (r *GormOrderRepository) missingOrStale(ctx context.Context, aggregate *order.Order) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("orderID", aggregate.ID().String())
	}
	return errs.NewConflictError("order", aggregate.ID().String(),
		fmt.Sprintf("was modified after version %d was read", aggregate.Version()))
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}
