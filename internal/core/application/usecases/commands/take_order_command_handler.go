package commands

import (
	"context"
	"errors"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/core/domain/services"
)

// TakeOrderCommandHandler assigns a CREATED order to the acting driver.
// Of several drivers racing for one order exactly one wins; the others get
// order.ErrOrderUnavailable, or order.ErrDriverHasActiveOrder when the
// loser is already busy with another order.
type TakeOrderCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewTakeOrderCommandHandler(uowFactory UoWFactory, fanOut *FanOut) TakeOrderCommandHandler {
	return TakeOrderCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h TakeOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := checkPermission(actor, access.ActionOrderTake); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driver, err := uow.PersonRepository().Get(ctx, actor.PersonID)
	if err != nil {
		return err
	}
	if err = services.NewOrderAccess().CheckTake(driver); err != nil {
		return err
	}

	o, err := applyOrderTransition(ctx, uow, cmd.OrderID(), func(o *order.Order, now time.Time) (order.Change, error) {
		return o.Take(driver.ID(), now)
	})
	if errors.Is(err, order.ErrOrderUnavailable) {
		busy, busyErr := uow.OrderRepository().HasActiveOrder(ctx, driver.ID())
		if busyErr != nil {
			return busyErr
		}
		if busy {
			return order.ErrDriverHasActiveOrder
		}
	}
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.OrderChanged(ctx, EventOrderTaken, o)
	return nil
}
