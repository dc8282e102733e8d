package order

import (
	"errors"
	"fmt"
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned for an Order not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrNotAssignedDriver is returned when a driver acts on an order assigned to someone else.
	// It wraps ErrOrderUnavailable so that callers cannot tell the two cases apart.
	ErrNotAssignedDriver = fmt.Errorf("%w: actor is not the assigned driver", ErrOrderUnavailable)
)

// Order is the aggregate root of a single transport job from a departure
// logistics point to a destination logistics point.
//
// Invariants:
//   - departure and destination differ, and at least one line item is carried
//   - a driver is assigned only in CONFIRMATION, LOADING, DEPARTED and COMPLETED
//   - a truck is assigned only in LOADING, DEPARTED and COMPLETED
//   - status moves only along the Transition table
//
// Every lifecycle method mutates the aggregate in memory and returns the
// Change under which the repository may persist it.
type Order struct {
	id            kernel.UUID
	departureID   kernel.UUID
	destinationID kernel.UUID
	managerID     kernel.UUID
	driverID      *kernel.UUID
	truckID       *kernel.UUID

	status  Status
	version int

	pricing Pricing
	items   []LineItem

	plannedLoadingAt *time.Time
	plannedArrivalAt *time.Time
	departedAt       *time.Time
	deliveredAt      *time.Time

	geo          *kernel.GeoPoint
	geoUpdatedAt *time.Time

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates an order in CREATED status on behalf of a manager.
//
//	o, err := order.NewOrder(kernel.NewUUID(), departure, destination, managerID, pricing, items, time.Now())
func NewOrder(
	id, departureID, destinationID, managerID kernel.UUID,
	pricing Pricing,
	items []LineItem,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Created,
		pricing:       pricing,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRoute(departureID, destinationID),
		o.setManager(managerID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreParams carries a persisted order back into the domain.
type RestoreParams struct {
	ID               kernel.UUID
	DepartureID      kernel.UUID
	DestinationID    kernel.UUID
	ManagerID        kernel.UUID
	DriverID         *kernel.UUID
	TruckID          *kernel.UUID
	Status           Status
	Version          int
	Pricing          Pricing
	Items            []LineItem
	PlannedLoadingAt *time.Time
	PlannedArrivalAt *time.Time
	DepartedAt       *time.Time
	DeliveredAt      *time.Time
	Geo              *kernel.GeoPoint
	GeoUpdatedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RestoreOrder rebuilds an order read from storage and re-checks its invariants.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		driverID:         p.DriverID,
		truckID:          p.TruckID,
		status:           p.Status,
		version:          p.Version,
		pricing:          p.Pricing,
		plannedLoadingAt: p.PlannedLoadingAt,
		plannedArrivalAt: p.PlannedArrivalAt,
		departedAt:       p.DepartedAt,
		deliveredAt:      p.DeliveredAt,
		geo:              p.Geo,
		geoUpdatedAt:     p.GeoUpdatedAt,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
		isConstructed:    true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setRoute(p.DepartureID, p.DestinationID),
		o.setManager(p.ManagerID),
		o.setItems(p.Items),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if err := p.Status.ValidateAssignment(p.DriverID != nil, p.TruckID != nil); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) DepartureID() kernel.UUID     { return o.departureID }
func (o *Order) DestinationID() kernel.UUID   { return o.destinationID }
func (o *Order) ManagerID() kernel.UUID       { return o.managerID }
func (o *Order) DriverID() *kernel.UUID       { return o.driverID }
func (o *Order) TruckID() *kernel.UUID        { return o.truckID }
func (o *Order) Status() Status               { return o.status }
func (o *Order) Version() int                 { return o.version }
func (o *Order) Pricing() Pricing             { return o.pricing }
func (o *Order) PlannedLoadingAt() *time.Time { return o.plannedLoadingAt }
func (o *Order) PlannedArrivalAt() *time.Time { return o.plannedArrivalAt }
func (o *Order) DepartedAt() *time.Time       { return o.departedAt }
func (o *Order) DeliveredAt() *time.Time      { return o.deliveredAt }
func (o *Order) Geo() *kernel.GeoPoint        { return o.geo }
func (o *Order) GeoUpdatedAt() *time.Time     { return o.geoUpdatedAt }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// IsAssignedTo reports whether driverID is the order's driver.
func (o *Order) IsAssignedTo(driverID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(driverID)
}

// Take assigns the order to a driver. The repository additionally checks
// that the driver holds no other active order.
func (o *Order) Take(driverID kernel.UUID, now time.Time) (Change, error) {
	if err := driverID.Validate(); err != nil {
		return Change{}, err
	}
	t, change, err := o.begin(ActionTake, nil)
	if err != nil {
		return Change{}, err
	}
	change.ExclusiveDriver = &driverID

	o.driverID = &driverID
	o.finish(t, now)
	return change, nil
}

// Confirm accepts the driver, binds the truck and fixes the planned dates.
func (o *Order) Confirm(truckID kernel.UUID, plannedLoadingAt, plannedArrivalAt time.Time, now time.Time) (Change, error) {
	if err := truckID.Validate(); err != nil {
		return Change{}, err
	}
	if plannedArrivalAt.Before(plannedLoadingAt) {
		return Change{}, errs.NewValueIsInvalidErrorWithCause("plannedArrivalDate",
			fmt.Errorf("%s is before planned loading date %s",
				plannedArrivalAt.Format(time.DateOnly), plannedLoadingAt.Format(time.DateOnly)))
	}
	t, change, err := o.begin(ActionConfirm, nil)
	if err != nil {
		return Change{}, err
	}

	o.truckID = &truckID
	o.plannedLoadingAt = &plannedLoadingAt
	o.plannedArrivalAt = &plannedArrivalAt
	o.finish(t, now)
	return change, nil
}

// RejectDriver returns the order to CREATED on the manager's behalf.
func (o *Order) RejectDriver(now time.Time) (Change, error) {
	t, change, err := o.begin(ActionRejectDriver, nil)
	if err != nil {
		return Change{}, err
	}
	o.finish(t, now)
	return change, nil
}

// Cancel returns the order to CREATED on the assigned driver's behalf.
func (o *Order) Cancel(driverID kernel.UUID, now time.Time) (Change, error) {
	t, change, err := o.begin(ActionCancel, &driverID)
	if err != nil {
		return Change{}, err
	}
	o.finish(t, now)
	return change, nil
}

// Depart records that the loaded truck left the departure point.
func (o *Order) Depart(driverID kernel.UUID, now time.Time) (Change, error) {
	t, change, err := o.begin(ActionDepart, &driverID)
	if err != nil {
		return Change{}, err
	}
	o.departedAt = &now
	o.finish(t, now)
	return change, nil
}

// Complete records the delivery.
func (o *Order) Complete(driverID kernel.UUID, now time.Time) (Change, error) {
	t, change, err := o.begin(ActionComplete, &driverID)
	if err != nil {
		return Change{}, err
	}
	o.deliveredAt = &now
	o.finish(t, now)
	return change, nil
}

// UpdateGeo stores the last known position. The status does not change.
func (o *Order) UpdateGeo(driverID kernel.UUID, point kernel.GeoPoint, now time.Time) (Change, error) {
	if err := point.Validate(); err != nil {
		return Change{}, err
	}
	t, change, err := o.begin(ActionUpdateGeo, &driverID)
	if err != nil {
		return Change{}, err
	}
	o.geo = &point
	o.geoUpdatedAt = &now
	o.finish(t, now)
	return change, nil
}

// Withdraw cancels the order for good on the manager's behalf.
func (o *Order) Withdraw(now time.Time) (Change, error) {
	t, change, err := o.begin(ActionWithdraw, nil)
	if err != nil {
		return Change{}, err
	}
	o.finish(t, now)
	return change, nil
}

func (o *Order) begin(action Action, assignedDriver *kernel.UUID) (Transition, Change, error) {
	if err := o.Validate(); err != nil {
		return Transition{}, Change{}, err
	}
	t, ok := TransitionFor(action)
	if !ok || !t.Permits(o.status) {
		return Transition{}, Change{}, NewInvalidTransitionError(action, o.status)
	}

	change := Change{
		Transition:      t,
		ExpectedStatus:  o.status,
		ExpectedVersion: o.version,
	}
	if t.AssignedDriverOnly {
		if assignedDriver == nil || !o.IsAssignedTo(*assignedDriver) {
			return Transition{}, Change{}, ErrNotAssignedDriver
		}
		change.AssignedDriver = assignedDriver
	}
	return t, change, nil
}

func (o *Order) finish(t Transition, now time.Time) {
	if t.ResetsAssignment {
		o.driverID = nil
		o.truckID = nil
		o.plannedLoadingAt = nil
		o.plannedArrivalAt = nil
	}
	if t.ChangesStatus() {
		o.status = t.To
		o.version++
	}
	o.updatedAt = now
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRoute(departureID, destinationID kernel.UUID) error {
	if err := errors.Join(departureID.Validate(), destinationID.Validate()); err != nil {
		return err
	}
	if departureID.IsEqual(destinationID) {
		return errs.NewValueIsInvalidErrorWithCause("destinationId", errors.New("destination equals departure"))
	}
	o.departureID = departureID
	o.destinationID = destinationID
	return nil
}

func (o *Order) setManager(managerID kernel.UUID) error {
	if err := managerID.Validate(); err != nil {
		return err
	}
	o.managerID = managerID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("nomenclatures")
	}
	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.NomenclatureID()]; dup {
			return errs.NewValueIsInvalidErrorWithCause("nomenclatures",
				fmt.Errorf("nomenclature %s is listed twice", item.NomenclatureID()))
		}
		seen[item.NomenclatureID()] = struct{}{}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}
