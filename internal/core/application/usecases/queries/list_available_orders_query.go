package queries

import (
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/pkg/guard"
)

var ErrListAvailableOrdersQueryIsNotConstructed = errors.New(
	"ListAvailableOrdersQuery must be created via NewListAvailableOrdersQuery constructor",
)

// ListAvailableOrdersQuery lists the CREATED orders a driver may take,
// oldest first.
type ListAvailableOrdersQuery struct {
	actor access.Actor

	guard guard.ConstructorGuard
}

func NewListAvailableOrdersQuery(actor access.Actor) (ListAvailableOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListAvailableOrdersQuery{}, err
	}
	return ListAvailableOrdersQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableOrdersQueryIsNotConstructed)
}

func (q ListAvailableOrdersQuery) Actor() access.Actor { return q.actor }
