package access

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
)

// Actor is the authenticated caller of an operation: the user from the
// bearer token and the person profile resolved for it.
type Actor struct {
	UserID       kernel.UUID
	PersonID     kernel.UUID
	Role         Role
	ContragentID *kernel.UUID
}

func (a Actor) Validate() error {
	return errors.Join(a.UserID.Validate(), a.PersonID.Validate(), a.Role.Validate())
}

// Can reports whether the actor's role permits action.
func (a Actor) Can(action Action) bool {
	return IsAllowed(a.Role, action)
}
