package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/order"
)

// ConfirmOrderCommandHandler moves an order from CONFIRMATION to LOADING.
// The truck is resolved from the VIN, or created, in the same transaction
// as the order update, so a lost race leaves no orphan truck behind.
type ConfirmOrderCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewConfirmOrderCommandHandler(uowFactory UoWFactory, fanOut *FanOut) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := checkPermission(cmd.Actor(), access.ActionOrderConfirm); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := applyOrderTransition(ctx, uow, cmd.OrderID(), func(o *order.Order, now time.Time) (order.Change, error) {
		if t, _ := order.TransitionFor(order.ActionConfirm); !t.Permits(o.Status()) {
			return order.Change{}, order.NewInvalidTransitionError(order.ActionConfirm, o.Status())
		}
		truck, err := uow.TruckRepository().GetOrCreateByVIN(ctx, cmd.VIN())
		if err != nil {
			return order.Change{}, err
		}
		return o.Confirm(truck.ID(), cmd.PlannedLoadingAt(), cmd.PlannedArrivalAt(), now)
	})
	if err != nil {
		return err
	}

	driverUser, err := personUser(ctx, uow, *o.DriverID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.OrderChanged(ctx, EventOrderConfirmed, o)
	h.fanOut.Push(ctx, driverUser, "Order confirmed", "The manager has confirmed your order, proceed to loading", orderPushData(o))
	return nil
}
