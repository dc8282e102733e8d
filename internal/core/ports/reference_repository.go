package ports

import (
	"context"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/reference"
)

// ReferenceRepository seeds and checks reference data.
type ReferenceRepository interface {
	AddContragent(ctx context.Context, c reference.Contragent) error
	AddLogisticsPoint(ctx context.Context, p reference.LogisticsPoint) error
	AddNomenclature(ctx context.Context, n reference.Nomenclature) error

	// MissingLogisticsPoints and MissingNomenclatures return the ids of ids
	// that are not stored.
	MissingLogisticsPoints(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error)
	MissingNomenclatures(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error)
	MissingContragents(ctx context.Context, ids []kernel.UUID) ([]kernel.UUID, error)
}
