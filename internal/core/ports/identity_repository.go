package ports

import (
	"context"

	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
)

type UserRepository interface {
	Add(ctx context.Context, user *identity.User) error
	Get(ctx context.Context, id kernel.UUID) (*identity.User, error)
	// UpdatePushToken stores the push token and device type of the user.
	UpdatePushToken(ctx context.Context, user *identity.User) error
}

type PersonRepository interface {
	Add(ctx context.Context, person *identity.Person) error
	Get(ctx context.Context, id kernel.UUID) (*identity.Person, error)
	GetByUserID(ctx context.Context, userID kernel.UUID) (*identity.Person, error)

	// ApplyApproval persists the submitted profile together with flag and
	// the responsible user, guarded by "<flag> = false". A person that is
	// already approved yields identity.ErrAlreadyApproved and nothing changes.
	ApplyApproval(ctx context.Context, person *identity.Person, flag identity.ApprovalFlag) error
}
