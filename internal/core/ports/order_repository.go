// Package ports defines the contracts between the fulfillment core and its infrastructure.
// Repositories, the product catalog and the event publisher are implemented by adapters,
// which keeps the domain and use cases free of storage and transport details.
package ports

import (
	"context"
	"iter"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its items and initial history.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the order if its stored version still equals aggregate.Version().
	// A lost race yields errs.ConflictError; the aggregate then has to be reloaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with items and history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Claim stores a claim already applied to the aggregate. The write succeeds only while
	// the stored order is READY_FOR_PICKUP with no driver; otherwise it returns
	// errs.ConflictError and leaves storage untouched.
	Claim(ctx context.Context, aggregate *order.Order) error

	// AppendHistory stores new history entries without touching the order row.
	AppendHistory(ctx context.Context, aggregate *order.Order) error

	// ListAvailable lazily yields unassigned READY_FOR_PICKUP orders, oldest first.
	//
	// Example:
	//   for o, err := range repo.ListAvailable(ctx) {
	//       if err != nil {
	//           return err
	//       }
	//       fmt.Println(o.Number())
	//   }
	ListAvailable(ctx context.Context) iter.Seq2[*order.Order, error]

	// GetAllOutForDelivery retrieves every order currently held by a driver.
	GetAllOutForDelivery(ctx context.Context) ([]*order.Order, error)
}
