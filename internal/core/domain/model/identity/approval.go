package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

// ErrAlreadyApproved is returned for a second approval of the same flag.
var ErrAlreadyApproved = errs.NewConflictError("person is already approved")

// ApprovalFlag names the column an approval sets. The repository guards
// the update with "<flag> = false".
type ApprovalFlag string

const (
	FlagApproved        ApprovalFlag = "approved"
	FlagApprovedCompany ApprovalFlag = "approved_company"
)

// Approver is the acting person of an approval.
type Approver struct {
	UserID       kernel.UUID
	Role         access.Role
	ContragentID *kernel.UUID
}

// Profile is what the approver submits about the target. Empty fields keep
// the stored values.
type Profile struct {
	FullName       string
	ContragentID   *kernel.UUID
	Passport       *Passport
	DrivingLicense *DrivingLicense
}

func (p Profile) Validate() error {
	var errPassport, errLicense error
	if p.Passport != nil {
		errPassport = p.Passport.Validate()
	}
	if p.DrivingLicense != nil {
		errLicense = p.DrivingLicense.Validate()
	}
	return errors.Join(errPassport, errLicense)
}

// ApproveDriver sets the driver approval flag chosen by the approver's role:
// managers set approved, company managers set approved_company on company
// drivers of their own contragent.
func (p *Person) ApproveDriver(approver Approver, profile Profile, now time.Time) (ApprovalFlag, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if !p.role.IsDriver() {
		return "", errs.NewValueIsInvalidErrorWithCause("personId", fmt.Errorf("person has role %s, not a driver", p.role))
	}

	var flag ApprovalFlag
	switch approver.Role {
	case access.RoleManager, access.RoleAdmin:
		flag = FlagApproved
	case access.RoleCompanyManager:
		if p.role != access.RoleCompanyDriver || !p.SameContragent(approver.ContragentID) {
			return "", errs.NewForbiddenError(string(access.ActionApproveDriver))
		}
		// A company manager cannot move the driver to another company.
		if profile.ContragentID != nil && !profile.ContragentID.IsEqual(*approver.ContragentID) {
			return "", errs.NewForbiddenError(string(access.ActionApproveDriver))
		}
		flag = FlagApprovedCompany
	default:
		return "", errs.NewForbiddenError(string(access.ActionApproveDriver))
	}

	return flag, p.approve(flag, approver, profile, now)
}

// ApproveCompanyManager sets approved on a company manager.
func (p *Person) ApproveCompanyManager(approver Approver, profile Profile, now time.Time) (ApprovalFlag, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if p.role != access.RoleCompanyManager {
		return "", errs.NewValueIsInvalidErrorWithCause("personId",
			fmt.Errorf("person has role %s, not %s", p.role, access.RoleCompanyManager))
	}
	if approver.Role != access.RoleManager && approver.Role != access.RoleAdmin {
		return "", errs.NewForbiddenError(string(access.ActionApproveCompanyManager))
	}

	return FlagApproved, p.approve(FlagApproved, approver, profile, now)
}

func (p *Person) approve(flag ApprovalFlag, approver Approver, profile Profile, now time.Time) error {
	if err := approver.UserID.Validate(); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	if p.IsApproved(flag) {
		return ErrAlreadyApproved
	}

	if name := strings.TrimSpace(profile.FullName); name != "" {
		p.fullName = name
	}
	if profile.ContragentID != nil {
		p.contragentID = profile.ContragentID
	}
	if profile.Passport != nil {
		p.passport = profile.Passport
	}
	if profile.DrivingLicense != nil {
		p.drivingLicense = profile.DrivingLicense
	}

	switch flag {
	case FlagApproved:
		p.approved = true
	case FlagApprovedCompany:
		p.approvedCompany = true
	}
	responsible := approver.UserID
	p.responsibleUserID = &responsible
	p.updatedAt = now
	return nil
}

// IsApproved reports the value of flag.
func (p *Person) IsApproved(flag ApprovalFlag) bool {
	if flag == FlagApprovedCompany {
		return p.approvedCompany
	}
	return p.approved
}
