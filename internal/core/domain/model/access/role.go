package access

import (
	"fmt"

	"cargo/internal/pkg/errs"
)

// Role is the discriminant of a user account and of the person profile
// layered on top of it.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleDriver         Role = "driver"
	RoleCompanyDriver  Role = "company_driver"
	RoleCompanyManager Role = "company_manager"
)

// ParseRole converts a stored or submitted role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleManager, RoleDriver, RoleCompanyDriver, RoleCompanyManager:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// IsDriver reports whether the role executes orders.
func (r Role) IsDriver() bool {
	return r == RoleDriver || r == RoleCompanyDriver
}

// RequiresApproval reports whether a freshly registered account of this role
// starts unapproved.
func (r Role) RequiresApproval() bool {
	return r == RoleDriver || r == RoleCompanyDriver || r == RoleCompanyManager
}

// SelfRegistrable reports whether the role may be chosen at registration.
func (r Role) SelfRegistrable() bool {
	return r != RoleAdmin
}
