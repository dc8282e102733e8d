package services

import (
	"errors"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"
)

// ErrDriverNotApproved is returned when an unapproved driver tries to take an order.
var ErrDriverNotApproved = errs.NewForbiddenErrorWithCause(string(access.ActionOrderTake),
	errors.New("driver is not approved"))

// OrderAccess decides what a person may see and do with an order beyond
// the role check done at the transport edge.
//
// Business rules:
//   - managers and admins see every order
//   - drivers see CREATED orders and the orders assigned to them
//   - only approved drivers take orders; company drivers also need the
//     approval of their company
type OrderAccess struct{}

func NewOrderAccess() OrderAccess {
	return OrderAccess{}
}

// CanView reports whether the actor may read an order in status assigned
// to driverID.
func (OrderAccess) CanView(actor access.Actor, status order.Status, driverID *kernel.UUID) bool {
	if actor.Validate() != nil {
		return false
	}
	switch {
	case actor.Role == access.RoleAdmin, actor.Role == access.RoleManager:
		return true
	case actor.Role.IsDriver():
		return status == order.Created || (driverID != nil && driverID.IsEqual(actor.PersonID))
	default:
		return false
	}
}

// CheckTake returns ErrDriverNotApproved unless the person may take orders.
func (OrderAccess) CheckTake(p *identity.Person) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.CanTakeOrders() {
		return ErrDriverNotApproved
	}
	return nil
}
