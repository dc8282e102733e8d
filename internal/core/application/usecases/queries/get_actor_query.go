package queries

import (
	"errors"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"
)

var ErrGetActorQueryIsNotConstructed = errors.New("GetActorQuery must be created via NewGetActorQuery constructor")

// GetActorQuery resolves the user id of a bearer token to the acting
// person and role.
type GetActorQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetActorQuery(userID kernel.UUID) (GetActorQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetActorQuery{}, err
	}
	return GetActorQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActorQuery) Validate() error {
	return q.guard.Validate(ErrGetActorQueryIsNotConstructed)
}

func (q GetActorQuery) UserID() kernel.UUID { return q.userID }
