package order

import (
	"errors"
	"fmt"

	"cargo/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CostType selects which of the two prices describe the order.
type CostType string

const (
	CostCash     CostType = "cash"
	CostNonCash  CostType = "non_cash"
	CostCombined CostType = "combined"
)

// Pricing is the payment mode of an order. Cash and non-cash prices are
// present exactly when the cost type calls for them.
type Pricing struct {
	costType     CostType
	cashPrice    *decimal.Decimal
	nonCashPrice *decimal.Decimal
}

func NewPricing(costType CostType, cashPrice, nonCashPrice *decimal.Decimal) (Pricing, error) {
	var wantCash, wantNonCash bool
	switch costType {
	case CostCash:
		wantCash = true
	case CostNonCash:
		wantNonCash = true
	case CostCombined:
		wantCash, wantNonCash = true, true
	default:
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("costType",
			fmt.Errorf("%q is not one of cash, non_cash, combined", string(costType)))
	}

	if err := checkPrice("cashPrice", cashPrice, wantCash); err != nil {
		return Pricing{}, err
	}
	if err := checkPrice("nonCashPrice", nonCashPrice, wantNonCash); err != nil {
		return Pricing{}, err
	}

	return Pricing{costType: costType, cashPrice: cashPrice, nonCashPrice: nonCashPrice}, nil
}

func checkPrice(name string, price *decimal.Decimal, wanted bool) error {
	switch {
	case wanted && price == nil:
		return errs.NewValueIsRequiredError(name)
	case !wanted && price != nil:
		return errs.NewValueIsInvalidErrorWithCause(name, errors.New("not used by this cost type"))
	case price != nil && !price.IsPositive():
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is not greater than 0", price))
	}
	return nil
}

func (p Pricing) CostType() CostType {
	return p.costType
}

func (p Pricing) CashPrice() *decimal.Decimal {
	return p.cashPrice
}

func (p Pricing) NonCashPrice() *decimal.Decimal {
	return p.nonCashPrice
}
