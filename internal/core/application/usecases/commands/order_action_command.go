package commands

import (
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrOrderActionCommandIsNotConstructed = errors.New(
	"OrderActionCommand must be created via NewOrderActionCommand constructor",
)

// OrderActionCommand is an order transition that carries nothing but the
// actor and the order: take, rejectDriver, cancel, depart, complete and
// withdraw.
//
//	cmd, err := NewOrderActionCommand(actor, orderID)
//	if err != nil {
//	    return err
//	}
//	err = takeHandler.Handle(ctx, cmd)
type OrderActionCommand struct {
	actor   access.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewOrderActionCommand(actor access.Actor, orderID kernel.UUID) (OrderActionCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return OrderActionCommand{}, err
	}
	return OrderActionCommand{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c OrderActionCommand) Validate() error {
	return c.guard.Validate(ErrOrderActionCommandIsNotConstructed)
}

func (c OrderActionCommand) Actor() access.Actor  { return c.actor }
func (c OrderActionCommand) OrderID() kernel.UUID { return c.orderID }

func checkPermission(actor access.Actor, action access.Action) error {
	if !actor.Can(action) {
		return errs.NewForbiddenError(string(action))
	}
	return nil
}
