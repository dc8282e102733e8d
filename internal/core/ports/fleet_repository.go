package ports

import (
	"context"

	"cargo/internal/core/domain/model/fleet"
	"cargo/internal/core/domain/model/kernel"
)

type TruckRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*fleet.Truck, error)
	// GetOrCreateByVIN returns the truck with vin, creating it when unknown.
	GetOrCreateByVIN(ctx context.Context, vin fleet.VIN) (*fleet.Truck, error)
}
