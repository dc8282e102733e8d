package commands

import (
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/guard"
)

var ErrUpdateOrderGeoCommandIsNotConstructed = errors.New(
	"UpdateOrderGeoCommand must be created via NewUpdateOrderGeoCommand constructor",
)

// UpdateOrderGeoCommand reports the position of the truck carrying an order.
type UpdateOrderGeoCommand struct {
	actor   access.Actor
	orderID kernel.UUID
	point   kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpdateOrderGeoCommand(actor access.Actor, orderID kernel.UUID, latitude, longitude float64) (UpdateOrderGeoCommand, error) {
	point, errPoint := kernel.NewGeoPoint(latitude, longitude)
	if err := errors.Join(actor.Validate(), orderID.Validate(), errPoint); err != nil {
		return UpdateOrderGeoCommand{}, err
	}
	return UpdateOrderGeoCommand{
		actor:   actor,
		orderID: orderID,
		point:   point,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderGeoCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderGeoCommandIsNotConstructed)
}

func (c UpdateOrderGeoCommand) Actor() access.Actor    { return c.actor }
func (c UpdateOrderGeoCommand) OrderID() kernel.UUID   { return c.orderID }
func (c UpdateOrderGeoCommand) Point() kernel.GeoPoint { return c.point }
