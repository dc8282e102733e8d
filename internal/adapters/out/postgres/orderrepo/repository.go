package orderrepo

import (
	"context"
	"errors"

	"cargo/internal/adapters/out/postgres/pgerr"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("order "+aggregate.ID().String()+" already exists", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Apply writes a mutated order under the guard described by change:
//
//	UPDATE orders SET ... WHERE id = ? AND status = ? AND version = ?
//	    [AND driver_id = ?]
//	    [AND NOT EXISTS (SELECT 1 FROM orders AS active
//	                     WHERE active.driver_id = ? AND active.status IN (...))]
//
// Location updates are guarded by the assigned driver and an active status
// instead of the version. No rows affected means the order moved on.
func (r *GormOrderRepository) Apply(ctx context.Context, aggregate *order.Order, change order.Change) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	active := statusNames(order.ActiveStatuses())
	q := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", aggregate.ID().Bytes())

	var values map[string]any
	if change.Transition.ChangesStatus() {
		q = q.Where("status = ? AND version = ?", change.ExpectedStatus.String(), change.ExpectedVersion)
		values = lifecycleColumns(aggregate)
	} else {
		q = q.Where("status IN ?", active)
		values = locationColumns(aggregate)
	}
	if change.AssignedDriver != nil {
		q = q.Where("driver_id = ?", change.AssignedDriver.Bytes())
	}
	if change.ExclusiveDriver != nil {
		q = q.Where("NOT EXISTS (SELECT 1 FROM orders AS active WHERE active.driver_id = ? AND active.status IN ?)",
			change.ExclusiveDriver.Bytes(), active)
	}

	result := q.Updates(values)
	if result.Error != nil {
		if pgerr.IsUniqueViolation(result.Error) {
			return order.ErrDriverHasActiveOrder
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderUnavailable
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) HasActiveOrder(ctx context.Context, driverID kernel.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), statusNames(order.ActiveStatuses())).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
