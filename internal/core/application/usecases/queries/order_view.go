// Package queries contains read-only use cases. Handlers read with GORM
// directly into view structs and never go through the aggregates.
package queries

import (
	"time"

	"cargo/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderView is an order expanded with its truck, logistics points, people
// and nomenclatures.
type OrderView struct {
	ID               uuid.UUID        `json:"id"`
	Status           order.Status     `json:"status"`
	Version          int              `json:"version"`
	CostType         order.CostType   `json:"costType"`
	CashPrice        *decimal.Decimal `json:"cashPrice,omitempty"`
	NonCashPrice     *decimal.Decimal `json:"nonCashPrice,omitempty"`
	PlannedLoadingAt *time.Time       `json:"plannedLoadingDate,omitempty"`
	PlannedArrivalAt *time.Time       `json:"plannedArrivalDate,omitempty"`
	DepartedAt       *time.Time       `json:"departureDate,omitempty"`
	DeliveredAt      *time.Time       `json:"deliveryDate,omitempty"`
	Geo              *GeoView         `json:"geo,omitempty"`
	Departure        PointView        `json:"departure"`
	Destination      PointView        `json:"destination"`
	Manager          PersonView       `json:"manager"`
	Driver           *PersonView      `json:"driver,omitempty"`
	Truck            *TruckView       `json:"truck,omitempty"`
	Items            []ItemView       `json:"nomenclatures"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type GeoView struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type PointView struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Address  AddressView   `json:"address"`
	Contacts []ContactView `json:"contacts"`
}

type AddressView struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
	Street  string `json:"street"`
	House   string `json:"house,omitempty"`
}

type ContactView struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PersonView struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	User     UserView  `json:"user"`
}

type UserView struct {
	ID    uuid.UUID `json:"id"`
	Phone string    `json:"phone"`
	Role  string    `json:"role"`
}

type TruckView struct {
	ID  uuid.UUID `json:"id"`
	VIN string    `json:"vin"`
}

type ItemView struct {
	Nomenclature NomenclatureView `json:"nomenclature"`
	NetWeight    float64          `json:"netWeight"`
	GrossWeight  float64          `json:"grossWeight"`
}

type NomenclatureView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Measure string    `json:"measure"`
}

// Read models. They map the same tables as the postgres adapter but carry
// the relations needed for preloading.

type orderRow struct {
	ID               uuid.UUID
	Status           string
	Version          int
	CostType         string
	CashPrice        decimal.NullDecimal
	NonCashPrice     decimal.NullDecimal
	PlannedLoadingAt *time.Time
	PlannedArrivalAt *time.Time
	DepartedAt       *time.Time
	DeliveredAt      *time.Time
	Latitude         *float64
	Longitude        *float64
	GeoUpdatedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	DepartureID   uuid.UUID
	Departure     pointRow `gorm:"foreignKey:DepartureID"`
	DestinationID uuid.UUID
	Destination   pointRow `gorm:"foreignKey:DestinationID"`
	ManagerID     uuid.UUID
	Manager       personRow `gorm:"foreignKey:ManagerID"`
	DriverID      *uuid.UUID
	Driver        *personRow `gorm:"foreignKey:DriverID"`
	TruckID       *uuid.UUID
	Truck         *truckRow `gorm:"foreignKey:TruckID"`
	Items         []itemRow `gorm:"foreignKey:OrderID"`
}

func (orderRow) TableName() string { return "orders" }

type pointRow struct {
	ID        uuid.UUID
	Name      string
	AddressID uuid.UUID
	Address   addressRow   `gorm:"foreignKey:AddressID"`
	Contacts  []contactRow `gorm:"foreignKey:LogisticsPointID"`
}

func (pointRow) TableName() string { return "logistics_points" }

type addressRow struct {
	ID      uuid.UUID
	Country string
	Region  string
	City    string
	Street  string
	House   string
}

func (addressRow) TableName() string { return "addresses" }

type contactRow struct {
	ID               uuid.UUID
	LogisticsPointID uuid.UUID
	Name             string
	Phone            string
}

func (contactRow) TableName() string { return "contacts" }

type personRow struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	FullName string
	User     userRow `gorm:"foreignKey:UserID"`
}

func (personRow) TableName() string { return "persons" }

type userRow struct {
	ID    uuid.UUID
	Phone string
	Role  string
}

func (userRow) TableName() string { return "users" }

type truckRow struct {
	ID  uuid.UUID
	VIN string `gorm:"column:vin"`
}

func (truckRow) TableName() string { return "trucks" }

type itemRow struct {
	OrderID        uuid.UUID `gorm:"primaryKey"`
	NomenclatureID uuid.UUID `gorm:"primaryKey"`
	NetWeight      float64
	GrossWeight    float64
	Nomenclature   nomenclatureRow `gorm:"foreignKey:NomenclatureID"`
}

func (itemRow) TableName() string { return "order_nomenclatures" }

type nomenclatureRow struct {
	ID      uuid.UUID
	Name    string
	Measure string
}

func (nomenclatureRow) TableName() string { return "nomenclatures" }

// expandedOrders preloads every relation of the order view.
func expandedOrders(db *gorm.DB) *gorm.DB {
	return db.Model(&orderRow{}).
		Preload("Departure.Address").
		Preload("Departure.Contacts").
		Preload("Destination.Address").
		Preload("Destination.Contacts").
		Preload("Manager.User").
		Preload("Driver.User").
		Preload("Truck").
		Preload("Items.Nomenclature")
}

func toOrderView(r orderRow) OrderView {
	v := OrderView{
		ID:               r.ID,
		Status:           order.Status(r.Status),
		Version:          r.Version,
		CostType:         order.CostType(r.CostType),
		CashPrice:        decimalPtr(r.CashPrice),
		NonCashPrice:     decimalPtr(r.NonCashPrice),
		PlannedLoadingAt: r.PlannedLoadingAt,
		PlannedArrivalAt: r.PlannedArrivalAt,
		DepartedAt:       r.DepartedAt,
		DeliveredAt:      r.DeliveredAt,
		Departure:        toPointView(r.Departure),
		Destination:      toPointView(r.Destination),
		Manager:          toPersonView(r.Manager),
		Items:            make([]ItemView, 0, len(r.Items)),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Latitude != nil && r.Longitude != nil {
		v.Geo = &GeoView{Latitude: *r.Latitude, Longitude: *r.Longitude, UpdatedAt: r.GeoUpdatedAt}
	}
	if r.Driver != nil {
		driver := toPersonView(*r.Driver)
		v.Driver = &driver
	}
	if r.Truck != nil {
		v.Truck = &TruckView{ID: r.Truck.ID, VIN: r.Truck.VIN}
	}
	for _, it := range r.Items {
		v.Items = append(v.Items, ItemView{
			Nomenclature: NomenclatureView{
				ID:      it.NomenclatureID,
				Name:    it.Nomenclature.Name,
				Measure: it.Nomenclature.Measure,
			},
			NetWeight:   it.NetWeight,
			GrossWeight: it.GrossWeight,
		})
	}
	return v
}

func toPointView(r pointRow) PointView {
	v := PointView{
		ID:   r.ID,
		Name: r.Name,
		Address: AddressView{
			Country: r.Address.Country,
			Region:  r.Address.Region,
			City:    r.Address.City,
			Street:  r.Address.Street,
			House:   r.Address.House,
		},
		Contacts: make([]ContactView, 0, len(r.Contacts)),
	}
	for _, c := range r.Contacts {
		v.Contacts = append(v.Contacts, ContactView{Name: c.Name, Phone: c.Phone})
	}
	return v
}

func toPersonView(r personRow) PersonView {
	return PersonView{
		ID:       r.ID,
		FullName: r.FullName,
		User:     UserView{ID: r.User.ID, Phone: r.User.Phone, Role: r.User.Role},
	}
}

func toOrderViews(rows []orderRow) []OrderView {
	views := make([]OrderView, 0, len(rows))
	for _, r := range rows {
		views = append(views, toOrderView(r))
	}
	return views
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
