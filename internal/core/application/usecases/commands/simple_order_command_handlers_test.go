package commands_test

import (
	"errors"
	"testing"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRejectDriverCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	o := takenOrder(t, driverActor().PersonID)
	cmd, _ := commands.NewOrderActionCommand(managerActor(), o.ID())

	f.expectTx(ctx, true)
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orders.On("Apply", ctx, o, changeFrom(order.Confirmation)).Return(nil).Once()
	f.live.On("Broadcast", ctx, ports.OrderUpdatesTopic(), eventStatus(commands.EventDriverRejected)).Return(nil).Once()

	err := commands.NewRejectDriverCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Created, o.Status())
	assert.Nil(t, o.DriverID())
	f.assertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_NotAssigned(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	o := takenOrder(t, driverActor().PersonID)
	cmd, _ := commands.NewOrderActionCommand(driverActor(), o.ID())

	f.expectTx(ctx, false)
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	err := commands.NewCancelOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrOrderUnavailable)
	assert.Equal(t, order.Confirmation, o.Status())
	f.assertExpectations(t)
}

func TestDepartOrderCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	actor := driverActor()
	o := takenOrder(t, actor.PersonID)
	cmd, _ := commands.NewOrderActionCommand(actor, o.ID())

	f.expectTx(ctx, false)
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	err := commands.NewDepartOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	var transitionErr *order.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, order.ActionDepart, transitionErr.Action)
	f.assertExpectations(t)
}

func TestCompleteOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	actor := driverActor()
	o := takenOrder(t, actor.PersonID)
	_, err := o.Confirm(kernelUUID(), now(), now(), now())
	require.NoError(t, err)
	_, err = o.Depart(actor.PersonID, now())
	require.NoError(t, err)
	cmd, _ := commands.NewOrderActionCommand(actor, o.ID())

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orders.On("Apply", ctx, o, changeFrom(order.Departed)).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(errors.New("commit failed")).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	err = commands.NewCompleteOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.EqualError(t, err, "commit failed")
	f.live.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestOrderCommandHandlers_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	actor := managerActor()
	missing := kernelUUID()
	cmd, _ := commands.NewOrderActionCommand(actor, missing)

	f.expectTx(ctx, false)
	f.orders.On("Get", ctx, missing).Return(nil, errs.NewObjectNotFoundError("orderId", missing)).Once()

	err := commands.NewWithdrawOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.assertExpectations(t)
}
