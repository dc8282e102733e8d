package order_test

import (
	"testing"

	"cargo/internal/core/domain/model/order"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("LOADING")
	require.NoError(t, err)
	assert.Equal(t, order.Loading, s)

	_, err = order.ParseStatus("loading")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_ActiveAndTerminal(t *testing.T) {
	for _, s := range order.ActiveStatuses() {
		assert.True(t, s.IsActive(), s)
		assert.False(t, s.IsTerminal(), s)
	}
	assert.False(t, order.Created.IsActive())
	assert.True(t, order.Completed.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
}

func TestStatus_ValidateAssignment(t *testing.T) {
	tests := []struct {
		status    order.Status
		hasDriver bool
		hasTruck  bool
		wantErr   bool
	}{
		{order.Created, false, false, false},
		{order.Created, true, false, true},
		{order.Confirmation, true, false, false},
		{order.Confirmation, true, true, true},
		{order.Loading, true, false, true},
		{order.Loading, true, true, false},
		{order.Completed, true, true, false},
		{order.Cancelled, false, false, false},
		{order.Cancelled, true, true, true},
	}

	for _, tt := range tests {
		err := tt.status.ValidateAssignment(tt.hasDriver, tt.hasTruck)
		if tt.wantErr {
			assert.Error(t, err, "%s driver=%v truck=%v", tt.status, tt.hasDriver, tt.hasTruck)
		} else {
			assert.NoError(t, err, "%s driver=%v truck=%v", tt.status, tt.hasDriver, tt.hasTruck)
		}
	}
}

func TestNewPricing(t *testing.T) {
	t.Run("combined requires both prices", func(t *testing.T) {
		price := decimalPtr(100)

		_, err := order.NewPricing(order.CostCombined, price, nil)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("cash rejects non-cash price", func(t *testing.T) {
		_, err := order.NewPricing(order.CostCash, decimalPtr(100), decimalPtr(90))

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("price must be positive", func(t *testing.T) {
		_, err := order.NewPricing(order.CostNonCash, nil, decimalPtr(0))

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unknown cost type", func(t *testing.T) {
		_, err := order.NewPricing("barter", nil, nil)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
