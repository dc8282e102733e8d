// Package truckrepo persists trucks, identified by VIN.
package truckrepo

import (
	"context"
	"errors"

	"cargo/internal/adapters/out/postgres/pgerr"
	"cargo/internal/core/domain/model/fleet"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TruckDTO struct {
	ID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	VIN string    `gorm:"column:vin;type:char(17);not null;uniqueIndex"`
}

func (TruckDTO) TableName() string {
	return "trucks"
}

func toDomain(dto TruckDTO) (*fleet.Truck, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	vin, err := fleet.ParseVIN(dto.VIN)
	if err != nil {
		return nil, err
	}
	return fleet.RestoreTruck(id, vin)
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormTruckRepository implements ports.TruckRepository.
type GormTruckRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormTruckRepository(db *gorm.DB, tracker aggregateTracker) *GormTruckRepository {
	return &GormTruckRepository{db: db, tracker: tracker}
}

func (r *GormTruckRepository) Get(ctx context.Context, id kernel.UUID) (*fleet.Truck, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TruckDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("truck", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// GetOrCreateByVIN inserts the truck with ON CONFLICT DO NOTHING and reads
// the row back, so two confirmations with the same new VIN share one truck.
func (r *GormTruckRepository) GetOrCreateByVIN(ctx context.Context, vin fleet.VIN) (*fleet.Truck, error) {
	truck, err := fleet.NewTruck(kernel.NewUUID(), vin)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	dto := TruckDTO{ID: truck.ID().Bytes(), VIN: vin.String()}
	err = db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "vin"}}, DoNothing: true}).Create(&dto).Error
	if err != nil && !pgerr.IsUniqueViolation(err) {
		return nil, err
	}

	var stored TruckDTO
	if err := db.First(&stored, "vin = ?", vin.String()).Error; err != nil {
		return nil, err
	}
	truck, err = toDomain(stored)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(truck.ID(), truck)
	return truck, nil
}
