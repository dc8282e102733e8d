package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/order"
)

// RejectDriverCommandHandler returns an order to CREATED on the manager's
// behalf, clearing driver, truck and planned dates.
type RejectDriverCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewRejectDriverCommandHandler(uowFactory UoWFactory, fanOut *FanOut) RejectDriverCommandHandler {
	return RejectDriverCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h RejectDriverCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := checkPermission(cmd.Actor(), access.ActionOrderRejectDriver); err != nil {
		return err
	}
	return simpleOrderTransition(ctx, h.uowFactory, h.fanOut, cmd.OrderID(), EventDriverRejected,
		func(o *order.Order, now time.Time) (order.Change, error) {
			return o.RejectDriver(now)
		})
}

// CancelOrderCommandHandler lets the assigned driver give the order back.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, fanOut *FanOut) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := checkPermission(actor, access.ActionOrderCancel); err != nil {
		return err
	}
	return simpleOrderTransition(ctx, h.uowFactory, h.fanOut, cmd.OrderID(), EventOrderCancelled,
		func(o *order.Order, now time.Time) (order.Change, error) {
			return o.Cancel(actor.PersonID, now)
		})
}

type DepartOrderCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewDepartOrderCommandHandler(uowFactory UoWFactory, fanOut *FanOut) DepartOrderCommandHandler {
	return DepartOrderCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h DepartOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := checkPermission(actor, access.ActionOrderDepart); err != nil {
		return err
	}
	return simpleOrderTransition(ctx, h.uowFactory, h.fanOut, cmd.OrderID(), EventOrderDeparted,
		func(o *order.Order, now time.Time) (order.Change, error) {
			return o.Depart(actor.PersonID, now)
		})
}

type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewCompleteOrderCommandHandler(uowFactory UoWFactory, fanOut *FanOut) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := checkPermission(actor, access.ActionOrderComplete); err != nil {
		return err
	}
	return simpleOrderTransition(ctx, h.uowFactory, h.fanOut, cmd.OrderID(), EventOrderCompleted,
		func(o *order.Order, now time.Time) (order.Change, error) {
			return o.Complete(actor.PersonID, now)
		})
}
