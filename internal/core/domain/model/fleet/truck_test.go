package fleet_test

import (
	"testing"

	"cargo/internal/core/domain/model/fleet"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVIN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    fleet.VIN
		wantErr error
	}{
		{"normalizes case and spaces", " 1hgcm82633a004352 ", "1HGCM82633A004352", nil},
		{"empty", "  ", "", errs.ErrValueIsRequired},
		{"too short", "1HGCM8263", "", errs.ErrValueIsInvalid},
		{"forbidden letter", "1HGCM82633A00435O", "", errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vin, err := fleet.ParseVIN(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, vin)
		})
	}
}

func TestNewTruck(t *testing.T) {
	id := kernel.NewUUID()

	truck, err := fleet.NewTruck(id, "1HGCM82633A004352")
	require.NoError(t, err)
	require.NoError(t, truck.Validate())
	assert.True(t, truck.ID().IsEqual(id))

	_, err = fleet.NewTruck(kernel.UUID{}, "1HGCM82633A004352")
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	var zero *fleet.Truck
	assert.ErrorIs(t, zero.Validate(), fleet.ErrTruckIsNotConstructed)
}
