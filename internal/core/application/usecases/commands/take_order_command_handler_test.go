package commands_test

import (
	"testing"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTakeOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	actor := driverActor()
	o := createdOrder(t)
	cmd, err := commands.NewOrderActionCommand(actor, o.ID())
	require.NoError(t, err)

	f.expectTx(ctx, true)
	mock.InOrder(
		f.persons.On("Get", ctx, actor.PersonID).Return(driverPerson(t, actor, true), nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.orders.On("Apply", ctx, o, changeFrom(order.Created)).Return(nil).Once(),
	)
	f.live.On("Broadcast", ctx, ports.OrderUpdatesTopic(), eventStatus(commands.EventOrderTaken)).Return(nil).Once()

	err = commands.NewTakeOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmation, o.Status())
	assert.True(t, o.IsAssignedTo(actor.PersonID))
	f.assertExpectations(t)
}

func TestTakeOrderCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	actor := driverActor()
	o := createdOrder(t)
	cmd, _ := commands.NewOrderActionCommand(actor, o.ID())

	f.expectTx(ctx, false)
	f.persons.On("Get", ctx, actor.PersonID).Return(driverPerson(t, actor, true), nil).Once()
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orders.On("Apply", ctx, o, mock.Anything).Return(order.ErrOrderUnavailable).Once()
	f.orders.On("HasActiveOrder", ctx, actor.PersonID).Return(false, nil).Once()

	err := commands.NewTakeOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrOrderUnavailable)
	f.assertExpectations(t)
}

func TestTakeOrderCommandHandler_Handle_DriverHasActiveOrder(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	actor := driverActor()
	o := createdOrder(t)
	cmd, _ := commands.NewOrderActionCommand(actor, o.ID())

	f.expectTx(ctx, false)
	f.persons.On("Get", ctx, actor.PersonID).Return(driverPerson(t, actor, true), nil).Once()
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.orders.On("Apply", ctx, o, mock.Anything).Return(order.ErrOrderUnavailable).Once()
	f.orders.On("HasActiveOrder", ctx, actor.PersonID).Return(true, nil).Once()

	err := commands.NewTakeOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrDriverHasActiveOrder)
	assert.ErrorIs(t, err, errs.ErrConflict)
	f.assertExpectations(t)
}

func TestTakeOrderCommandHandler_Handle_UnapprovedDriver(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	actor := driverActor()
	cmd, _ := commands.NewOrderActionCommand(actor, createdOrder(t).ID())

	f.expectTx(ctx, false)
	f.persons.On("Get", ctx, actor.PersonID).Return(driverPerson(t, actor, false), nil).Once()

	err := commands.NewTakeOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
	f.orders.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestTakeOrderCommandHandler_Handle_WrongRole(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	cmd, _ := commands.NewOrderActionCommand(managerActor(), createdOrder(t).ID())

	err := commands.NewTakeOrderCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
	f.factory.AssertNotCalled(t, "Create")
}

func TestTakeOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newFixture()

	err := commands.NewTakeOrderCommandHandler(f.factory, f.fanOut).Handle(t.Context(), commands.OrderActionCommand{})

	require.ErrorIs(t, err, commands.ErrOrderActionCommandIsNotConstructed)
	f.factory.AssertNotCalled(t, "Create")
}
