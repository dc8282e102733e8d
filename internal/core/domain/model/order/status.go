package order

import (
	"fmt"

	"cargo/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	CREATED ──take──> CONFIRMATION ──confirm──> LOADING ──depart──> DEPARTED ──complete──> COMPLETED
//	   ^                   │                       │
//	   └──rejectDriver/cancel (reset, clears driver and truck)
//
//	CREATED | CONFIRMATION | LOADING ──withdraw──> CANCELLED
//
// COMPLETED and CANCELLED are terminal.
type Status string

const (
	Created      Status = "CREATED"
	Confirmation Status = "CONFIRMATION"
	Loading      Status = "LOADING"
	Departed     Status = "DEPARTED"
	Completed    Status = "COMPLETED"
	Cancelled    Status = "CANCELLED"
)

// ActiveStatuses are the states in which an order occupies its driver.
// A driver may hold at most one order in any of them.
func ActiveStatuses() []Status {
	return []Status{Confirmation, Loading, Departed}
}

// ParseStatus converts a stored or submitted status name.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

func (s Status) Validate() error {
	switch s {
	case Created, Confirmation, Loading, Departed, Completed, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the order is in progress with a driver.
func (s Status) IsActive() bool {
	return s == Confirmation || s == Loading || s == Departed
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// ValidateAssignment checks the driver/truck columns against the status:
// a driver only in CONFIRMATION, LOADING, DEPARTED, COMPLETED and a truck
// only from LOADING on.
func (s Status) ValidateAssignment(hasDriver, hasTruck bool) error {
	mayHaveDriver := s.IsActive() || s == Completed
	mayHaveTruck := s == Loading || s == Departed || s == Completed

	if hasDriver && !mayHaveDriver {
		return errs.NewValueIsInvalidErrorWithCause("driver", fmt.Errorf("%s order cannot have a driver", s))
	}
	if !hasDriver && mayHaveDriver {
		return errs.NewValueIsInvalidErrorWithCause("driver", fmt.Errorf("%s order must have a driver", s))
	}
	if hasTruck && !mayHaveTruck {
		return errs.NewValueIsInvalidErrorWithCause("truck", fmt.Errorf("%s order cannot have a truck", s))
	}
	if !hasTruck && mayHaveTruck {
		return errs.NewValueIsInvalidErrorWithCause("truck", fmt.Errorf("%s order must have a truck", s))
	}
	return nil
}
