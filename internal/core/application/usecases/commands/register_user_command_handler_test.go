package commands_test

import (
	"testing"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRegisterUserCommand_UnknownRole(t *testing.T) {
	_, err := commands.NewRegisterUserCommand(kernel.NewUUID(), kernel.NewUUID(), "+79001234567", "pilot", "", nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRegisterUserCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	cmd, err := commands.NewRegisterUserCommand(kernel.NewUUID(), kernel.NewUUID(), "+79001234567", "driver", "Oleg", nil)
	require.NoError(t, err)

	f.expectTx(ctx, true)
	f.users.On("Add", ctx, mock.AnythingOfType("*identity.User")).Return(nil).Once()
	f.persons.On("Add", ctx, mock.MatchedBy(func(p *identity.Person) bool {
		return p.ID().IsEqual(cmd.PersonID()) && !p.Approved()
	})).Return(nil).Once()
	f.live.On("Broadcast", ctx, ports.NewUsersTopic(), mock.MatchedBy(func(e ports.LiveEvent) bool {
		return e.Status == commands.EventNewUser && e.Fields["role"] == "driver"
	})).Return(nil).Once()

	err = commands.NewRegisterUserCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestRegisterUserCommandHandler_Handle_UnknownContragent(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	contragent := kernel.NewUUID()
	cmd, _ := commands.NewRegisterUserCommand(kernel.NewUUID(), kernel.NewUUID(), "+79001234567", "company_driver", "", &contragent)

	f.expectTx(ctx, false)
	f.refs.On("MissingContragents", ctx, []kernel.UUID{contragent}).Return([]kernel.UUID{contragent}, nil).Once()

	err := commands.NewRegisterUserCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.users.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRegisterUserCommandHandler_Handle_DuplicatePhone(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	cmd, _ := commands.NewRegisterUserCommand(kernel.NewUUID(), kernel.NewUUID(), "+79001234567", "manager", "", nil)

	f.expectTx(ctx, false)
	f.users.On("Add", ctx, mock.Anything).Return(errs.NewConflictError("phone is already registered")).Once()

	err := commands.NewRegisterUserCommandHandler(f.factory, f.fanOut).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	f.assertExpectations(t)
}
