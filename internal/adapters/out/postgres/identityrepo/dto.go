// Package identityrepo persists users and their role-scoped persons.
package identityrepo

import (
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/identity"
	"cargo/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type UserDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Phone      string    `gorm:"type:varchar(16);not null;uniqueIndex"`
	Role       string    `gorm:"type:varchar(32);not null"`
	PushToken  string    `gorm:"type:text;not null;default:''"`
	DeviceType string    `gorm:"type:varchar(16);not null;default:''"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (UserDTO) TableName() string {
	return "users"
}

// PersonDTO is the base record of every role; passport and driving license
// are optional extension records keyed by person id.
type PersonDTO struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex"`
	Role              string             `gorm:"type:varchar(32);not null;index"`
	FullName          string             `gorm:"not null;default:''"`
	ContragentID      *uuid.UUID         `gorm:"type:uuid;index"`
	Approved          bool               `gorm:"not null;default:false"`
	ApprovedCompany   bool               `gorm:"not null;default:false"`
	ResponsibleUserID *uuid.UUID         `gorm:"type:uuid"`
	Passport          *PassportDTO       `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	DrivingLicense    *DrivingLicenseDTO `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (PersonDTO) TableName() string {
	return "persons"
}

type PassportDTO struct {
	PersonID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Series   string    `gorm:"type:varchar(16);not null"`
	Number   string    `gorm:"type:varchar(32);not null"`
	IssuedBy string
	IssuedAt time.Time `gorm:"type:date;not null"`
}

func (PassportDTO) TableName() string {
	return "passports"
}

type DrivingLicenseDTO struct {
	PersonID   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number     string     `gorm:"type:varchar(32);not null"`
	Categories string     `gorm:"type:varchar(32)"`
	IssuedAt   *time.Time `gorm:"type:date"`
	ExpiresAt  *time.Time `gorm:"type:date"`
}

func (DrivingLicenseDTO) TableName() string {
	return "driving_licenses"
}

func userFromDomain(u *identity.User) UserDTO {
	return UserDTO{
		ID:         u.ID().Bytes(),
		Phone:      u.Phone(),
		Role:       u.Role().String(),
		PushToken:  u.PushToken(),
		DeviceType: string(u.DeviceType()),
		CreatedAt:  u.CreatedAt(),
		UpdatedAt:  u.UpdatedAt(),
	}
}

func userToDomain(dto UserDTO) (*identity.User, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return identity.RestoreUser(id, dto.Phone, access.Role(dto.Role), dto.PushToken,
		identity.DeviceType(dto.DeviceType), dto.CreatedAt, dto.UpdatedAt)
}

func personFromDomain(p *identity.Person) PersonDTO {
	return PersonDTO{
		ID:                p.ID().Bytes(),
		UserID:            p.UserID().Bytes(),
		Role:              p.Role().String(),
		FullName:          p.FullName(),
		ContragentID:      kernel.RawPtr(p.ContragentID()),
		Approved:          p.Approved(),
		ApprovedCompany:   p.ApprovedCompany(),
		ResponsibleUserID: kernel.RawPtr(p.ResponsibleUserID()),
		Passport:          passportFromDomain(p.ID().Bytes(), p.Passport()),
		DrivingLicense:    licenseFromDomain(p.ID().Bytes(), p.DrivingLicense()),
		CreatedAt:         p.CreatedAt(),
		UpdatedAt:         p.UpdatedAt(),
	}
}

func personToDomain(dto PersonDTO) (*identity.Person, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromGoogle(dto.UserID)
	if err != nil {
		return nil, err
	}
	contragentID, err := kernel.Ptr(dto.ContragentID)
	if err != nil {
		return nil, err
	}
	responsibleUserID, err := kernel.Ptr(dto.ResponsibleUserID)
	if err != nil {
		return nil, err
	}

	return identity.RestorePerson(identity.PersonState{
		ID:                id,
		UserID:            userID,
		Role:              access.Role(dto.Role),
		FullName:          dto.FullName,
		ContragentID:      contragentID,
		Approved:          dto.Approved,
		ApprovedCompany:   dto.ApprovedCompany,
		ResponsibleUserID: responsibleUserID,
		Passport:          passportToDomain(dto.Passport),
		DrivingLicense:    licenseToDomain(dto.DrivingLicense),
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
	})
}

func passportFromDomain(personID uuid.UUID, p *identity.Passport) *PassportDTO {
	if p == nil {
		return nil
	}
	return &PassportDTO{
		PersonID: personID,
		Series:   p.Series,
		Number:   p.Number,
		IssuedBy: p.IssuedBy,
		IssuedAt: p.IssuedAt,
	}
}

func passportToDomain(dto *PassportDTO) *identity.Passport {
	if dto == nil {
		return nil
	}
	return &identity.Passport{
		Series:   dto.Series,
		Number:   dto.Number,
		IssuedBy: dto.IssuedBy,
		IssuedAt: dto.IssuedAt,
	}
}

func licenseFromDomain(personID uuid.UUID, l *identity.DrivingLicense) *DrivingLicenseDTO {
	if l == nil {
		return nil
	}
	return &DrivingLicenseDTO{
		PersonID:   personID,
		Number:     l.Number,
		Categories: l.Categories,
		IssuedAt:   timePtr(l.IssuedAt),
		ExpiresAt:  timePtr(l.ExpiresAt),
	}
}

func licenseToDomain(dto *DrivingLicenseDTO) *identity.DrivingLicense {
	if dto == nil {
		return nil
	}
	return &identity.DrivingLicense{
		Number:     dto.Number,
		Categories: dto.Categories,
		IssuedAt:   derefTime(dto.IssuedAt),
		ExpiresAt:  derefTime(dto.ExpiresAt),
	}
}

// approvalColumns are written by ApplyApproval next to the flag itself.
func approvalColumns(p *identity.Person) map[string]any {
	return map[string]any{
		"full_name":           p.FullName(),
		"contragent_id":       kernel.RawPtr(p.ContragentID()),
		"responsible_user_id": kernel.RawPtr(p.ResponsibleUserID()),
		"updated_at":          p.UpdatedAt(),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
