// Package orderrepo persists Order aggregates. Lifecycle writes are single
// conditional updates; see GormOrderRepository.Apply.
package orderrepo

import (
	"time"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActiveDriverIndex is the partial unique index that keeps a driver on at
// most one order in CONFIRMATION, LOADING or DEPARTED.
const ActiveDriverIndex = "orders_active_driver_uidx"

// OrderDTO is the row of the orders table.
type OrderDTO struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	DepartureID      uuid.UUID           `gorm:"type:uuid;not null"`
	DestinationID    uuid.UUID           `gorm:"type:uuid;not null"`
	ManagerID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	DriverID         *uuid.UUID          `gorm:"type:uuid;index"`
	TruckID          *uuid.UUID          `gorm:"type:uuid"`
	Status           string              `gorm:"type:varchar(16);not null;index"`
	Version          int                 `gorm:"not null;default:0"`
	CostType         string              `gorm:"type:varchar(16);not null"`
	CashPrice        decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	NonCashPrice     decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	PlannedLoadingAt *time.Time
	PlannedArrivalAt *time.Time
	DepartedAt       *time.Time
	DeliveredAt      *time.Time
	Latitude         *float64
	Longitude        *float64
	GeoUpdatedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO links an order to a nomenclature with its weights.
type OrderItemDTO struct {
	OrderID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	NomenclatureID uuid.UUID `gorm:"type:uuid;primaryKey"`
	NetWeight      float64   `gorm:"type:double precision;not null"`
	GrossWeight    float64   `gorm:"type:double precision;not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_nomenclatures"
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:               o.ID().Bytes(),
		DepartureID:      o.DepartureID().Bytes(),
		DestinationID:    o.DestinationID().Bytes(),
		ManagerID:        o.ManagerID().Bytes(),
		DriverID:         kernel.RawPtr(o.DriverID()),
		TruckID:          kernel.RawPtr(o.TruckID()),
		Status:           o.Status().String(),
		Version:          o.Version(),
		CostType:         string(o.Pricing().CostType()),
		CashPrice:        nullDecimal(o.Pricing().CashPrice()),
		NonCashPrice:     nullDecimal(o.Pricing().NonCashPrice()),
		PlannedLoadingAt: o.PlannedLoadingAt(),
		PlannedArrivalAt: o.PlannedArrivalAt(),
		DepartedAt:       o.DepartedAt(),
		DeliveredAt:      o.DeliveredAt(),
		GeoUpdatedAt:     o.GeoUpdatedAt(),
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
	}
	dto.Latitude, dto.Longitude = geoColumns(o.Geo())

	for _, item := range o.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:        dto.ID,
			NomenclatureID: item.NomenclatureID().Bytes(),
			NetWeight:      item.NetWeight(),
			GrossWeight:    item.GrossWeight(),
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.DepartureID, dto.DestinationID, dto.ManagerID} {
		id, err := kernel.UUIDFromGoogle(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	driverID, err := kernel.Ptr(dto.DriverID)
	if err != nil {
		return nil, err
	}
	truckID, err := kernel.Ptr(dto.TruckID)
	if err != nil {
		return nil, err
	}

	pricing, err := order.NewPricing(order.CostType(dto.CostType), decimalPtr(dto.CashPrice), decimalPtr(dto.NonCashPrice))
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		nomenclatureID, err := kernel.UUIDFromGoogle(it.NomenclatureID)
		if err != nil {
			return nil, err
		}
		item, err := order.NewLineItem(nomenclatureID, it.NetWeight, it.GrossWeight)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	var geo *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, err := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if err != nil {
			return nil, err
		}
		geo = &point
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:               ids[0],
		DepartureID:      ids[1],
		DestinationID:    ids[2],
		ManagerID:        ids[3],
		DriverID:         driverID,
		TruckID:          truckID,
		Status:           order.Status(dto.Status),
		Version:          dto.Version,
		Pricing:          pricing,
		Items:            items,
		PlannedLoadingAt: dto.PlannedLoadingAt,
		PlannedArrivalAt: dto.PlannedArrivalAt,
		DepartedAt:       dto.DepartedAt,
		DeliveredAt:      dto.DeliveredAt,
		Geo:              geo,
		GeoUpdatedAt:     dto.GeoUpdatedAt,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
	})
}

// lifecycleColumns are written by status-changing transitions.
func lifecycleColumns(o *order.Order) map[string]any {
	return map[string]any{
		"status":             o.Status().String(),
		"version":            o.Version(),
		"driver_id":          kernel.RawPtr(o.DriverID()),
		"truck_id":           kernel.RawPtr(o.TruckID()),
		"planned_loading_at": o.PlannedLoadingAt(),
		"planned_arrival_at": o.PlannedArrivalAt(),
		"departed_at":        o.DepartedAt(),
		"delivered_at":       o.DeliveredAt(),
		"updated_at":         o.UpdatedAt(),
	}
}

// locationColumns are written by updateGeo, which leaves status and
// version alone.
func locationColumns(o *order.Order) map[string]any {
	lat, lon := geoColumns(o.Geo())
	return map[string]any{
		"latitude":       lat,
		"longitude":      lon,
		"geo_updated_at": o.GeoUpdatedAt(),
		"updated_at":     o.UpdatedAt(),
	}
}

func geoColumns(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lon := p.Latitude(), p.Longitude()
	return &lat, &lon
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
