package commands

import (
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"
)

var ErrApprovePersonCommandIsNotConstructed = errors.New(
	"ApprovePersonCommand must be created via NewApprovePersonCommand constructor",
)

// ApprovePersonCommand approves a driver or a company manager and stores
// the profile the approver submitted with it.
type ApprovePersonCommand struct {
	actor    access.Actor
	personID kernel.UUID
	profile  identity.Profile

	guard guard.ConstructorGuard
}

func NewApprovePersonCommand(actor access.Actor, personID kernel.UUID, profile identity.Profile) (ApprovePersonCommand, error) {
	if err := errors.Join(actor.Validate(), personID.Validate(), profile.Validate()); err != nil {
		return ApprovePersonCommand{}, err
	}
	return ApprovePersonCommand{
		actor:    actor,
		personID: personID,
		profile:  profile,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ApprovePersonCommand) Validate() error {
	return c.guard.Validate(ErrApprovePersonCommandIsNotConstructed)
}

func (c ApprovePersonCommand) Actor() access.Actor       { return c.actor }
func (c ApprovePersonCommand) PersonID() kernel.UUID     { return c.personID }
func (c ApprovePersonCommand) Profile() identity.Profile { return c.profile }

func (c ApprovePersonCommand) approver() identity.Approver {
	return identity.Approver{UserID: c.actor.UserID, Role: c.actor.Role, ContragentID: c.actor.ContragentID}
}
