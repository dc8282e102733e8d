package queries

import (
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrListManagerOrdersQueryIsNotConstructed = errors.New(
	"ListManagerOrdersQuery must be created via NewListManagerOrdersQuery constructor",
)

// ListManagerOrdersQuery pages through every order, newest first,
// optionally narrowed to one status.
type ListManagerOrdersQuery struct {
	actor  access.Actor
	status *order.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListManagerOrdersQuery accepts an empty status for "any". A zero limit
// selects DefaultPageSize.
func NewListManagerOrdersQuery(actor access.Actor, status string, limit, offset int) (ListManagerOrdersQuery, error) {
	var errStatus, errLimit, errOffset error
	var st *order.Status
	if status != "" {
		parsed, err := order.ParseStatus(status)
		if err != nil {
			errStatus = err
		}
		st = &parsed
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 || limit > MaxPageSize {
		errLimit = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize)
	}
	if offset < 0 {
		errOffset = errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	if err := errors.Join(actor.Validate(), errStatus, errLimit, errOffset); err != nil {
		return ListManagerOrdersQuery{}, err
	}

	return ListManagerOrdersQuery{
		actor:  actor,
		status: st,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListManagerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListManagerOrdersQueryIsNotConstructed)
}

func (q ListManagerOrdersQuery) Actor() access.Actor   { return q.actor }
func (q ListManagerOrdersQuery) Status() *order.Status { return q.status }
func (q ListManagerOrdersQuery) Limit() int            { return q.limit }
func (q ListManagerOrdersQuery) Offset() int           { return q.offset }
