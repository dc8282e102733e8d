package commands

import (
	"context"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"
)

// CreateOrderCommandHandler stores a new order in CREATED status after
// checking that every referenced logistics point and nomenclature exists.
// Managers watching order updates learn about it immediately.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	fanOut     *FanOut
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory, fanOut *FanOut) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory, fanOut: fanOut}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := checkPermission(cmd.Actor(), access.ActionOrderCreate); err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.DepartureID(), cmd.DestinationID(), cmd.Actor().PersonID,
		cmd.Pricing(), cmd.Items(), time.Now().UTC())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	refs := uow.ReferenceRepository()
	missingPoints, err := refs.MissingLogisticsPoints(ctx, []kernel.UUID{cmd.DepartureID(), cmd.DestinationID()})
	if err != nil {
		return err
	}
	if len(missingPoints) > 0 {
		return errs.NewObjectNotFoundError("logisticsPointId", missingPoints[0].String())
	}
	missingNomenclatures, err := refs.MissingNomenclatures(ctx, cmd.NomenclatureIDs())
	if err != nil {
		return err
	}
	if len(missingNomenclatures) > 0 {
		return errs.NewObjectNotFoundError("nomenclatureId", missingNomenclatures[0].String())
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.OrderChanged(ctx, EventOrderCreated, o)
	return nil
}
