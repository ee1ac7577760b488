package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

type ValidationReason string

const (
	ReasonEmptyTeamName        ValidationReason = "EmptyTeamName"
	ReasonWrongPlayerCount     ValidationReason = "WrongPlayerCount"
	ReasonWrongSubstituteCount ValidationReason = "WrongSubstituteCount"
	ReasonUnknownGame          ValidationReason = "UnknownGame"
	ReasonNegativeGoals        ValidationReason = "NegativeGoals"
	ReasonCounterOverflow      ValidationReason = "CounterOverflow"
)

// ValidationError reports caller input that failed a structural precondition.
// The store is never touched when one is returned.
type ValidationError struct {
	Reason ValidationReason
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrInvalidInput, e.Reason, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

type NotFoundReason string

const ReasonTeamNotRegistered NotFoundReason = "TeamNotRegistered"

// NotFoundError reports a (game, team) pair with no registered record.
type NotFoundError struct {
	Reason NotFoundReason
	Game   tournament.Game
	Team   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s: game=%s team=%s", ErrNotFound, e.Reason, e.Game, e.Team)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// validationFromDomain maps a domain rule violation onto a ValidationError.
func validationFromDomain(err error) error {
	if err == nil {
		return nil
	}

	reason := ValidationReason("")
	switch {
	case errors.Is(err, tournament.ErrUnknownGame):
		reason = ReasonUnknownGame
	case errors.Is(err, tournament.ErrEmptyTeamName):
		reason = ReasonEmptyTeamName
	case errors.Is(err, tournament.ErrWrongPlayerCount):
		reason = ReasonWrongPlayerCount
	case errors.Is(err, tournament.ErrWrongSubstituteCount):
		reason = ReasonWrongSubstituteCount
	case errors.Is(err, tournament.ErrNegativeGoals):
		reason = ReasonNegativeGoals
	case errors.Is(err, tournament.ErrCounterOverflow):
		reason = ReasonCounterOverflow
	default:
		return err
	}

	return &ValidationError{Reason: reason, Err: err}
}

// ValidationReasonOf extracts the reason from err, if it carries one.
func ValidationReasonOf(err error) (ValidationReason, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target.Reason, true
	}
	return "", false
}
