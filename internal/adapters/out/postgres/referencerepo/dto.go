// Package referencerepo stores logistics points, contragents and
// nomenclatures. Orders reference them by id only.
package referencerepo

import (
	"cargo/internal/core/domain/model/reference"

	"github.com/google/uuid"
)

type ContragentDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"not null"`
	INN  string    `gorm:"column:inn;type:varchar(12)"`
}

func (ContragentDTO) TableName() string {
	return "contragents"
}

type AddressDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Country string    `gorm:"not null"`
	Region  string
	City    string `gorm:"not null"`
	Street  string `gorm:"not null"`
	House   string
}

func (AddressDTO) TableName() string {
	return "addresses"
}

type LogisticsPointDTO struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Name      string       `gorm:"not null"`
	AddressID uuid.UUID    `gorm:"type:uuid;not null"`
	Address   AddressDTO   `gorm:"foreignKey:AddressID"`
	Contacts  []ContactDTO `gorm:"foreignKey:LogisticsPointID;constraint:OnDelete:CASCADE"`
}

func (LogisticsPointDTO) TableName() string {
	return "logistics_points"
}

type ContactDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	LogisticsPointID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string
	Phone            string `gorm:"type:varchar(16);not null"`
}

func (ContactDTO) TableName() string {
	return "contacts"
}

type NomenclatureDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"not null"`
	Measure string    `gorm:"type:varchar(16);not null"`
}

func (NomenclatureDTO) TableName() string {
	return "nomenclatures"
}

func logisticsPointFromDomain(p reference.LogisticsPoint) LogisticsPointDTO {
	dto := LogisticsPointDTO{
		ID:        p.ID.Bytes(),
		Name:      p.Name,
		AddressID: p.Address.ID.Bytes(),
		Address: AddressDTO{
			ID:      p.Address.ID.Bytes(),
			Country: p.Address.Country,
			Region:  p.Address.Region,
			City:    p.Address.City,
			Street:  p.Address.Street,
			House:   p.Address.House,
		},
	}
	for _, c := range p.Contacts {
		dto.Contacts = append(dto.Contacts, ContactDTO{
			ID:               c.ID.Bytes(),
			LogisticsPointID: dto.ID,
			Name:             c.Name,
			Phone:            c.Phone,
		})
	}
	return dto
}
