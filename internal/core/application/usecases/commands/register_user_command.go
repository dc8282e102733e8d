package commands

import (
	"errors"
	"strings"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"
)

var ErrRegisterUserCommandIsNotConstructed = errors.New(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// RegisterUserCommand creates a user and its person profile. It is the
// only command without an actor.
type RegisterUserCommand struct {
	userID       kernel.UUID
	personID     kernel.UUID
	phone        string
	role         access.Role
	fullName     string
	contragentID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewRegisterUserCommand(
	userID, personID kernel.UUID,
	phone string,
	role string,
	fullName string,
	contragentID *kernel.UUID,
) (RegisterUserCommand, error) {
	r, errRole := access.ParseRole(role)
	if err := errors.Join(userID.Validate(), personID.Validate(), errRole); err != nil {
		return RegisterUserCommand{}, err
	}
	return RegisterUserCommand{
		userID:       userID,
		personID:     personID,
		phone:        phone,
		role:         r,
		fullName:     strings.TrimSpace(fullName),
		contragentID: contragentID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) UserID() kernel.UUID        { return c.userID }
func (c RegisterUserCommand) PersonID() kernel.UUID      { return c.personID }
func (c RegisterUserCommand) Phone() string              { return c.phone }
func (c RegisterUserCommand) Role() access.Role          { return c.role }
func (c RegisterUserCommand) FullName() string           { return c.fullName }
func (c RegisterUserCommand) ContragentID() *kernel.UUID { return c.contragentID }
