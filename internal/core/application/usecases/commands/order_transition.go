package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
)

type orderMutation func(o *order.Order, now time.Time) (order.Change, error)

// applyOrderTransition loads the order, mutates it and writes the change
// through the repository's guarded update. It must run inside a begun uow.
func applyOrderTransition(ctx context.Context, uow UoW, orderID kernel.UUID, mutate orderMutation) (*order.Order, error) {
	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	change, err := mutate(o, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = repo.Apply(ctx, o, change); err != nil {
		return nil, err
	}
	return o, nil
}

// simpleOrderTransition runs a transition that needs nothing beyond the
// order itself and broadcasts kind on success.
func simpleOrderTransition(
	ctx context.Context,
	uowFactory UoWFactory,
	fanOut *FanOut,
	orderID kernel.UUID,
	kind string,
	mutate orderMutation,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := applyOrderTransition(ctx, uow, orderID, mutate)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	fanOut.OrderChanged(ctx, kind, o)
	return nil
}
