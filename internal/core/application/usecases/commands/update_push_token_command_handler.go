package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/access"
)

type UpdatePushTokenCommandHandler struct {
	uowFactory UoWFactory
}

func NewUpdatePushTokenCommandHandler(uowFactory UoWFactory) UpdatePushTokenCommandHandler {
	return UpdatePushTokenCommandHandler{uowFactory: uowFactory}
}

func (h UpdatePushTokenCommandHandler) Handle(ctx context.Context, cmd UpdatePushTokenCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := checkPermission(cmd.Actor(), access.ActionUserPushToken); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()
	user, err := users.Get(ctx, cmd.Actor().UserID)
	if err != nil {
		return err
	}
	if err = user.SetPushToken(cmd.Token(), cmd.DeviceType(), time.Now().UTC()); err != nil {
		return err
	}
	if err = users.UpdatePushToken(ctx, user); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
