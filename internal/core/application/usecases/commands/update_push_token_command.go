package commands

import (
	"errors"
	"strings"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrUpdatePushTokenCommandIsNotConstructed = errors.New(
	"UpdatePushTokenCommand must be created via NewUpdatePushTokenCommand constructor",
)

type UpdatePushTokenCommand struct {
	actor      access.Actor
	token      string
	deviceType identity.DeviceType

	guard guard.ConstructorGuard
}

func NewUpdatePushTokenCommand(actor access.Actor, token, deviceType string) (UpdatePushTokenCommand, error) {
	var errToken error
	token = strings.TrimSpace(token)
	if token == "" {
		errToken = errs.NewValueIsRequiredError("pushToken")
	}
	d, errDevice := identity.ParseDeviceType(deviceType)

	if err := errors.Join(actor.Validate(), errToken, errDevice); err != nil {
		return UpdatePushTokenCommand{}, err
	}
	return UpdatePushTokenCommand{actor: actor, token: token, deviceType: d, guard: guard.NewConstructorGuard()}, nil
}

func (c UpdatePushTokenCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePushTokenCommandIsNotConstructed)
}

func (c UpdatePushTokenCommand) Actor() access.Actor             { return c.actor }
func (c UpdatePushTokenCommand) Token() string                   { return c.token }
func (c UpdatePushTokenCommand) DeviceType() identity.DeviceType { return c.deviceType }
