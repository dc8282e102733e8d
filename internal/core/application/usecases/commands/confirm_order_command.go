package commands

import (
	"errors"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/fleet"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
	"cargo/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand accepts the driver of an order in CONFIRMATION and
// binds the truck identified by VIN.
type ConfirmOrderCommand struct {
	actor            access.Actor
	orderID          kernel.UUID
	vin              fleet.VIN
	plannedLoadingAt time.Time
	plannedArrivalAt time.Time

	guard guard.ConstructorGuard
}

func NewConfirmOrderCommand(
	actor access.Actor,
	orderID kernel.UUID,
	vin string,
	plannedLoadingAt, plannedArrivalAt time.Time,
) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		actor:            actor,
		orderID:          orderID,
		plannedLoadingAt: plannedLoadingAt,
		plannedArrivalAt: plannedArrivalAt,
		guard:            guard.NewConstructorGuard(),
	}

	var errLoading, errArrival error
	if plannedLoadingAt.IsZero() {
		errLoading = errs.NewValueIsRequiredError("plannedLoadingDate")
	}
	if plannedArrivalAt.IsZero() {
		errArrival = errs.NewValueIsRequiredError("plannedArrivalDate")
	}

	if err := errors.Join(
		actor.Validate(),
		orderID.Validate(),
		cmd.setVIN(vin),
		errLoading,
		errArrival,
	); err != nil {
		return ConfirmOrderCommand{}, err
	}
	return cmd, nil
}

func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

func (c ConfirmOrderCommand) Actor() access.Actor         { return c.actor }
func (c ConfirmOrderCommand) OrderID() kernel.UUID        { return c.orderID }
func (c ConfirmOrderCommand) VIN() fleet.VIN              { return c.vin }
func (c ConfirmOrderCommand) PlannedLoadingAt() time.Time { return c.plannedLoadingAt }
func (c ConfirmOrderCommand) PlannedArrivalAt() time.Time { return c.plannedArrivalAt }

func (c *ConfirmOrderCommand) setVIN(vin string) error {
	v, err := fleet.ParseVIN(vin)
	if err != nil {
		return err
	}
	c.vin = v
	return nil
}
