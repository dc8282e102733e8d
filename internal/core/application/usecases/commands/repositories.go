// Package commands contains the operations that change state: order
// lifecycle transitions, approvals and user registration. Every handler
// validates its command, runs inside one unit of work and fans out
// notifications only after a successful commit.
package commands

import (
	"context"

	"cargo/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	IdentityRepoFactory interface {
		UserRepository() ports.UserRepository
		PersonRepository() ports.PersonRepository
	}

	FleetRepoFactory interface {
		TruckRepository() ports.TruckRepository
	}

	ReferenceRepoFactory interface {
		ReferenceRepository() ports.ReferenceRepository
	}

	// UoW spans every aggregate a command may touch.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//	    return err
	//	}
	//	defer func() { _ = uow.Rollback(ctx) }()
	//	...
	//	return uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		IdentityRepoFactory
		FleetRepoFactory
		ReferenceRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
