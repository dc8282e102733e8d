package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cargo/internal/pkg/errs"
)

// Passport is the identity document submitted for approval.
type Passport struct {
	Series   string
	Number   string
	IssuedBy string
	IssuedAt time.Time
}

func (p Passport) Validate() error {
	var errSeries, errNumber, errIssued error
	if strings.TrimSpace(p.Series) == "" {
		errSeries = errs.NewValueIsRequiredError("passport.series")
	}
	if strings.TrimSpace(p.Number) == "" {
		errNumber = errs.NewValueIsRequiredError("passport.number")
	}
	if p.IssuedAt.IsZero() {
		errIssued = errs.NewValueIsRequiredError("passport.issuedAt")
	}
	return errors.Join(errSeries, errNumber, errIssued)
}

// DrivingLicense is submitted by drivers.
type DrivingLicense struct {
	Number     string
	Categories string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

func (l DrivingLicense) Validate() error {
	var errNumber, errDates error
	if strings.TrimSpace(l.Number) == "" {
		errNumber = errs.NewValueIsRequiredError("drivingLicense.number")
	}
	if !l.ExpiresAt.IsZero() && l.ExpiresAt.Before(l.IssuedAt) {
		errDates = errs.NewValueIsInvalidErrorWithCause("drivingLicense.expiresAt",
			fmt.Errorf("%s is before issue date %s", l.ExpiresAt.Format(time.DateOnly), l.IssuedAt.Format(time.DateOnly)))
	}
	return errors.Join(errNumber, errDates)
}
