package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/ports"
	"cargo/internal/pkg/errs"
)

// RegisterUserCommandHandler creates the User and Person of a new account
// and tells the managers about it on the new-users topic.
type RegisterUserCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewRegisterUserCommandHandler(uowFactory UoWFactory, fanOut *FanOut) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	user, err := identity.NewUser(cmd.UserID(), cmd.Phone(), cmd.Role(), now)
	if err != nil {
		return err
	}
	person, err := identity.NewPerson(cmd.PersonID(), user, cmd.FullName(), cmd.ContragentID(), now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if id := cmd.ContragentID(); id != nil {
		missing, missErr := uow.ReferenceRepository().MissingContragents(ctx, []kernel.UUID{*id})
		if missErr != nil {
			return missErr
		}
		if len(missing) > 0 {
			return errs.NewObjectNotFoundError("contragentId", id.String())
		}
	}

	if err = uow.UserRepository().Add(ctx, user); err != nil {
		return err
	}
	if err = uow.PersonRepository().Add(ctx, person); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.Broadcast(ctx, ports.NewUsersTopic(), ports.NewLiveEvent(EventNewUser, map[string]any{
		"userId":   user.ID().String(),
		"personId": person.ID().String(),
		"phone":    user.Phone(),
		"role":     user.Role().String(),
		"fullName": person.FullName(),
		"approved": person.Approved(),
	}))
	return nil
}
