package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/core/ports"
)

// UpdateOrderGeoCommandHandler stores the driver's position on the order and
// forwards it to the order-location subscribers. The status is left alone.
type UpdateOrderGeoCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewUpdateOrderGeoCommandHandler(uowFactory UoWFactory, fanOut *FanOut) UpdateOrderGeoCommandHandler {
	return UpdateOrderGeoCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h UpdateOrderGeoCommandHandler) Handle(ctx context.Context, cmd UpdateOrderGeoCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := checkPermission(actor, access.ActionOrderUpdateGeo); err != nil {
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
		return o.UpdateGeo(actor.PersonID, cmd.Point(), now)
	})
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.Broadcast(ctx, ports.OrderLocationTopic(o.ID()), locationEvent(o))
	return nil
}
