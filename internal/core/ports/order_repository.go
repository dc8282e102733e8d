// Package ports declares what the application core needs from the outside
// world: persistence, the live status channel and the push gateway.
package ports

import (
	"context"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates.
type OrderRepository interface {
	// Add inserts a new order with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Apply writes the columns touched by change.Transition as one
	// conditional update guarded by the expected status and version, the
	// assigned driver and, for a take, the driver's other active orders.
	// Zero affected rows yield order.ErrOrderUnavailable; nothing is retried.
	Apply(ctx context.Context, aggregate *order.Order, change order.Change) error

	// HasActiveOrder reports whether the driver holds an order in
	// CONFIRMATION, LOADING or DEPARTED.
	HasActiveOrder(ctx context.Context, driverID kernel.UUID) (bool, error)
}
