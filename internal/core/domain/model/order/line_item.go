package order

import (
	"errors"
	"fmt"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

// LineItem is one nomenclature carried by the order with its weights in kg.
type LineItem struct {
	nomenclatureID kernel.UUID
	netWeight      float64
	grossWeight    float64
}

// NewLineItem requires a positive net weight and a gross weight not below it.
func NewLineItem(nomenclatureID kernel.UUID, netWeight, grossWeight float64) (LineItem, error) {
	var errNet, errGross error
	if netWeight <= 0 {
		errNet = errs.NewValueIsInvalidErrorWithCause("netWeight", fmt.Errorf("%v is not greater than 0", netWeight))
	}
	if grossWeight < netWeight {
		errGross = errs.NewValueIsInvalidErrorWithCause("grossWeight",
			fmt.Errorf("%v is less than net weight %v", grossWeight, netWeight))
	}
	if err := errors.Join(nomenclatureID.Validate(), errNet, errGross); err != nil {
		return LineItem{}, err
	}
	return LineItem{nomenclatureID: nomenclatureID, netWeight: netWeight, grossWeight: grossWeight}, nil
}

func (i LineItem) NomenclatureID() kernel.UUID {
	return i.nomenclatureID
}

func (i LineItem) NetWeight() float64 {
	return i.netWeight
}

func (i LineItem) GrossWeight() float64 {
	return i.grossWeight
}
