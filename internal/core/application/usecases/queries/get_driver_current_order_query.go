package queries

import (
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/pkg/guard"
)

var ErrGetDriverCurrentOrderQueryIsNotConstructed = errors.New(
	"GetDriverCurrentOrderQuery must be created via NewGetDriverCurrentOrderQuery constructor",
)

// GetDriverCurrentOrderQuery reads the order the driver is working on.
type GetDriverCurrentOrderQuery struct {
	actor access.Actor

	guard guard.ConstructorGuard
}

func NewGetDriverCurrentOrderQuery(actor access.Actor) (GetDriverCurrentOrderQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetDriverCurrentOrderQuery{}, err
	}
	return GetDriverCurrentOrderQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDriverCurrentOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverCurrentOrderQueryIsNotConstructed)
}

func (q GetDriverCurrentOrderQuery) Actor() access.Actor { return q.actor }
