// Package fleet holds the trucks that carry orders.
package fleet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

var ErrTruckIsNotConstructed = errors.New("Truck must be created via NewTruck or RestoreTruck")

// ISO 3779: 17 characters, letters I, O and Q excluded.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// VIN is a normalized vehicle identification number.
type VIN string

func ParseVIN(s string) (VIN, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return "", errs.NewValueIsRequiredError("vin")
	}
	if !vinPattern.MatchString(v) {
		return "", errs.NewValueIsInvalidErrorWithCause("vin", fmt.Errorf("%q is not a 17 character VIN", s))
	}
	return VIN(v), nil
}

func (v VIN) String() string {
	return string(v)
}

// Truck is identified by its VIN. A truck is created the first time a
// manager confirms an order with an unknown VIN.
type Truck struct {
	id  kernel.UUID
	vin VIN

	isConstructed bool
}

func NewTruck(id kernel.UUID, vin VIN) (*Truck, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseVIN(string(vin)); err != nil {
		return nil, err
	}
	return &Truck{id: id, vin: vin, isConstructed: true}, nil
}

func RestoreTruck(id kernel.UUID, vin VIN) (*Truck, error) {
	return NewTruck(id, vin)
}

func (t *Truck) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTruckIsNotConstructed
	}
	return nil
}

func (t *Truck) ID() kernel.UUID { return t.id }
func (t *Truck) VIN() VIN        { return t.vin }
