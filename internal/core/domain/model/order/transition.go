package order

import (
	"errors"
	"fmt"
	"slices"

	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

var (
	// ErrInvalidTransition is the sentinel behind InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrOrderUnavailable is returned by the repository when a guarded
	// update matched no row: the order moved on or was taken by someone else.
	ErrOrderUnavailable = errors.New("order not available for this action")

	// ErrDriverHasActiveOrder is returned when a driver taking an order
	// already holds one in CONFIRMATION, LOADING or DEPARTED.
	ErrDriverHasActiveOrder = errs.NewConflictError("driver already has an active order")
)

// Action is a command that may move an order along the lifecycle graph.
type Action string

const (
	ActionTake         Action = "take"
	ActionConfirm      Action = "confirm"
	ActionRejectDriver Action = "rejectDriver"
	ActionCancel       Action = "cancel"
	ActionDepart       Action = "depart"
	ActionComplete     Action = "complete"
	ActionUpdateGeo    Action = "updateGeo"
	ActionWithdraw     Action = "withdraw"
)

// Transition is one row of the lifecycle table.
type Transition struct {
	Action Action
	// From lists the statuses the action is accepted in. Empty means any
	// non-terminal status.
	From []Status
	// To is the resulting status; empty keeps the current one.
	To Status
	// ResetsAssignment clears driver, truck and planned dates.
	ResetsAssignment bool
	// AssignedDriverOnly requires the actor to be the order's driver.
	AssignedDriverOnly bool
}

var transitions = map[Action]Transition{
	ActionTake:         {Action: ActionTake, From: []Status{Created}, To: Confirmation},
	ActionConfirm:      {Action: ActionConfirm, From: []Status{Confirmation}, To: Loading},
	ActionRejectDriver: {Action: ActionRejectDriver, From: []Status{Created, Confirmation, Loading}, To: Created, ResetsAssignment: true},
	ActionCancel:       {Action: ActionCancel, From: []Status{Confirmation, Loading}, To: Created, ResetsAssignment: true, AssignedDriverOnly: true},
	ActionDepart:       {Action: ActionDepart, From: []Status{Loading}, To: Departed, AssignedDriverOnly: true},
	ActionComplete:     {Action: ActionComplete, From: []Status{Departed}, To: Completed, AssignedDriverOnly: true},
	ActionUpdateGeo:    {Action: ActionUpdateGeo, AssignedDriverOnly: true},
	ActionWithdraw:     {Action: ActionWithdraw, From: []Status{Created, Confirmation, Loading}, To: Cancelled, ResetsAssignment: true},
}

// TransitionFor returns the table row of action.
func TransitionFor(action Action) (Transition, bool) {
	t, ok := transitions[action]
	return t, ok
}

// Permits reports whether the transition is accepted from status.
func (t Transition) Permits(status Status) bool {
	if status.IsTerminal() {
		return false
	}
	if len(t.From) == 0 {
		return true
	}
	return slices.Contains(t.From, status)
}

// ChangesStatus reports whether the transition moves the lifecycle.
// Only such transitions are versioned.
func (t Transition) ChangesStatus() bool {
	return t.To != ""
}

// InvalidTransitionError reports an action attempted from a status that
// does not accept it.
type InvalidTransitionError struct {
	Action Action
	Status Status
}

func NewInvalidTransitionError(action Action, status Status) *InvalidTransitionError {
	return &InvalidTransitionError{Action: action, Status: status}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s is not allowed in status %s", ErrInvalidTransition, e.Action, e.Status)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Change describes the guard under which a mutated aggregate may be written.
// The repository turns it into a single conditional UPDATE; zero affected
// rows mean another actor got there first.
type Change struct {
	Transition Transition
	// ExpectedStatus and ExpectedVersion are the values observed on load.
	ExpectedStatus  Status
	ExpectedVersion int
	// AssignedDriver, when set, must equal the row's driver_id.
	AssignedDriver *kernel.UUID
	// ExclusiveDriver, when set, must hold no other active order.
	ExclusiveDriver *kernel.UUID
}
