package commands

import (
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItemInput is one nomenclature line of a new order.
type OrderItemInput struct {
	NomenclatureID kernel.UUID
	NetWeight      float64
	GrossWeight    float64
}

// CreateOrderCommand registers a new order on behalf of a manager.
//
//	cmd, err := NewCreateOrderCommand(actor, kernel.NewUUID(), departureID, destinationID,
//	    order.CostCash, &price, nil, items)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor         access.Actor
	orderID       kernel.UUID
	departureID   kernel.UUID
	destinationID kernel.UUID
	pricing       order.Pricing
	items         []order.LineItem

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	actor access.Actor,
	orderID, departureID, destinationID kernel.UUID,
	costType order.CostType,
	cashPrice, nonCashPrice *decimal.Decimal,
	items []OrderItemInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		actor:         actor,
		orderID:       orderID,
		departureID:   departureID,
		destinationID: destinationID,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		actor.Validate(),
		orderID.Validate(),
		departureID.Validate(),
		destinationID.Validate(),
		cmd.setPricing(costType, cashPrice, nonCashPrice),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() access.Actor        { return c.actor }
func (c CreateOrderCommand) OrderID() kernel.UUID       { return c.orderID }
func (c CreateOrderCommand) DepartureID() kernel.UUID   { return c.departureID }
func (c CreateOrderCommand) DestinationID() kernel.UUID { return c.destinationID }
func (c CreateOrderCommand) Pricing() order.Pricing     { return c.pricing }

func (c CreateOrderCommand) Items() []order.LineItem {
	items := make([]order.LineItem, len(c.items))
	copy(items, c.items)
	return items
}

// NomenclatureIDs lists the nomenclatures referenced by the items.
func (c CreateOrderCommand) NomenclatureIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(c.items))
	for _, item := range c.items {
		ids = append(ids, item.NomenclatureID())
	}
	return ids
}

func (c *CreateOrderCommand) setPricing(costType order.CostType, cashPrice, nonCashPrice *decimal.Decimal) error {
	p, err := order.NewPricing(costType, cashPrice, nonCashPrice)
	if err != nil {
		return err
	}
	c.pricing = p
	return nil
}

func (c *CreateOrderCommand) setItems(inputs []OrderItemInput) error {
	items := make([]order.LineItem, 0, len(inputs))
	var errList []error
	for _, in := range inputs {
		item, err := order.NewLineItem(in.NomenclatureID, in.NetWeight, in.GrossWeight)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}
	c.items = items
	return nil
}
