package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
)

// WithdrawOrderCommandHandler cancels an order for good. A driver that held
// the order is notified by push.
type WithdrawOrderCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewWithdrawOrderCommandHandler(uowFactory UoWFactory, fanOut *FanOut) WithdrawOrderCommandHandler {
	return WithdrawOrderCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h WithdrawOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := checkPermission(cmd.Actor(), access.ActionOrderWithdraw); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var formerDriver *kernel.UUID
	o, err := applyOrderTransition(ctx, uow, cmd.OrderID(), func(o *order.Order, now time.Time) (order.Change, error) {
		formerDriver = o.DriverID()
		return o.Withdraw(now)
	})
	if err != nil {
		return err
	}

	var driverUser *identity.User
	if formerDriver != nil {
		if driverUser, err = personUser(ctx, uow, *formerDriver); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.OrderChanged(ctx, EventOrderWithdrawn, o)
	h.fanOut.Push(ctx, driverUser, "Order withdrawn", "The manager has withdrawn your order", orderPushData(o))
	return nil
}

// personUser loads the account behind a person profile.
func personUser(ctx context.Context, uow UoW, personID kernel.UUID) (*identity.User, error) {
	p, err := uow.PersonRepository().Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	return uow.UserRepository().Get(ctx, p.UserID())
}
