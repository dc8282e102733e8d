package identity

import (
	"errors"
	"strings"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

var ErrPersonIsNotConstructed = errors.New("Person must be created via NewPerson or RestorePerson")

// Person is the role-scoped profile of a User. The role is the discriminant;
// passport and driving license are optional extension records.
type Person struct {
	id                kernel.UUID
	userID            kernel.UUID
	role              access.Role
	fullName          string
	contragentID      *kernel.UUID
	approved          bool
	approvedCompany   bool
	responsibleUserID *kernel.UUID
	passport          *Passport
	drivingLicense    *DrivingLicense
	createdAt         time.Time
	updatedAt         time.Time

	isConstructed bool
}

// NewPerson creates the profile of a freshly registered user. Roles that do
// not go through approval start approved.
func NewPerson(id kernel.UUID, user *User, fullName string, contragentID *kernel.UUID, now time.Time) (*Person, error) {
	if err := errors.Join(id.Validate(), user.Validate()); err != nil {
		return nil, err
	}
	if user.Role() == access.RoleCompanyDriver || user.Role() == access.RoleCompanyManager {
		if contragentID == nil {
			return nil, errs.NewValueIsRequiredError("contragentId")
		}
	}

	return &Person{
		id:            id,
		userID:        user.ID(),
		role:          user.Role(),
		fullName:      strings.TrimSpace(fullName),
		contragentID:  contragentID,
		approved:      !user.Role().RequiresApproval(),
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// PersonState is the persisted form of a Person.
type PersonState struct {
	ID                kernel.UUID
	UserID            kernel.UUID
	Role              access.Role
	FullName          string
	ContragentID      *kernel.UUID
	Approved          bool
	ApprovedCompany   bool
	ResponsibleUserID *kernel.UUID
	Passport          *Passport
	DrivingLicense    *DrivingLicense
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func RestorePerson(s PersonState) (*Person, error) {
	if err := errors.Join(s.ID.Validate(), s.UserID.Validate(), s.Role.Validate()); err != nil {
		return nil, err
	}
	return &Person{
		id:                s.ID,
		userID:            s.UserID,
		role:              s.Role,
		fullName:          s.FullName,
		contragentID:      s.ContragentID,
		approved:          s.Approved,
		approvedCompany:   s.ApprovedCompany,
		responsibleUserID: s.ResponsibleUserID,
		passport:          s.Passport,
		drivingLicense:    s.DrivingLicense,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		isConstructed:     true,
	}, nil
}

func (p *Person) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPersonIsNotConstructed
	}
	return nil
}

func (p *Person) ID() kernel.UUID                 { return p.id }
func (p *Person) UserID() kernel.UUID             { return p.userID }
func (p *Person) Role() access.Role               { return p.role }
func (p *Person) FullName() string                { return p.fullName }
func (p *Person) ContragentID() *kernel.UUID      { return p.contragentID }
func (p *Person) Approved() bool                  { return p.approved }
func (p *Person) ApprovedCompany() bool           { return p.approvedCompany }
func (p *Person) ResponsibleUserID() *kernel.UUID { return p.responsibleUserID }
func (p *Person) Passport() *Passport             { return p.passport }
func (p *Person) DrivingLicense() *DrivingLicense { return p.drivingLicense }
func (p *Person) CreatedAt() time.Time            { return p.createdAt }
func (p *Person) UpdatedAt() time.Time            { return p.updatedAt }

// CanTakeOrders reports whether the person may take an order. A company
// driver needs both the platform and the company approval.
func (p *Person) CanTakeOrders() bool {
	if !p.role.IsDriver() || !p.approved {
		return false
	}
	return p.role != access.RoleCompanyDriver || p.approvedCompany
}

// SameContragent reports whether both persons belong to one company.
func (p *Person) SameContragent(other *kernel.UUID) bool {
	return p.contragentID != nil && other != nil && p.contragentID.IsEqual(*other)
}
