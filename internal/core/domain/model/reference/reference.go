// Package reference holds the reference data orders point at: logistics
// points with their address and contacts, contragents and nomenclatures.
// The service reads them; they are seeded through the repository.
package reference

import (
	"errors"
	"strings"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

type Address struct {
	ID      kernel.UUID
	Country string
	Region  string
	City    string
	Street  string
	House   string
}

func (a Address) Validate() error {
	return errors.Join(
		a.ID.Validate(),
		required("address.country", a.Country),
		required("address.city", a.City),
		required("address.street", a.Street),
	)
}

type Contact struct {
	ID    kernel.UUID
	Name  string
	Phone string
}

func (c Contact) Validate() error {
	return errors.Join(c.ID.Validate(), required("contact.phone", c.Phone))
}

// LogisticsPoint is a departure or destination of an order.
type LogisticsPoint struct {
	ID       kernel.UUID
	Name     string
	Address  Address
	Contacts []Contact
}

func (p LogisticsPoint) Validate() error {
	errList := []error{p.ID.Validate(), required("logisticsPoint.name", p.Name), p.Address.Validate()}
	for _, c := range p.Contacts {
		errList = append(errList, c.Validate())
	}
	return errors.Join(errList...)
}

// Contragent is a company that company drivers and managers belong to.
type Contragent struct {
	ID   kernel.UUID
	Name string
	INN  string
}

func (c Contragent) Validate() error {
	return errors.Join(c.ID.Validate(), required("contragent.name", c.Name))
}

// Nomenclature is a kind of cargo with its unit of measure.
type Nomenclature struct {
	ID      kernel.UUID
	Name    string
	Measure string
}

func (n Nomenclature) Validate() error {
	return errors.Join(
		n.ID.Validate(),
		required("nomenclature.name", n.Name),
		required("nomenclature.measure", n.Measure),
	)
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
