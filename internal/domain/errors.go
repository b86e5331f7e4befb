package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple lookup and conflict outcomes.
var (
	ErrActivityNotFound    = errors.New("activity not found")
	ErrActivityNameNeeded  = errors.New("activity name required")
	ErrInvalidCapacity     = errors.New("capacity must be positive")
	ErrInvalidTimeRange    = errors.New("schedule must end after it starts")
	ErrInvalidStatus       = errors.New("invalid schedule status")
	ErrInvalidMinimumAge   = errors.New("minimum age out of range")
	ErrInvalidID           = errors.New("invalid id")
	ErrVisitorExists       = errors.New("visitor already exists")
	ErrEnrollmentConflict  = errors.New("enrollment already exists")
	ErrSerializationFailed = errors.New("transaction serialization failure")
)

// The enrollment contract reports failures with structured fields; each
// outcome below is an expected domain result, not a defect, and is returned
// to the caller verbatim.

type EmptyVisitorListError struct{}

func (EmptyVisitorListError) Error() string {
	return "at least one visitor is required"
}

type ScheduleNotFoundError struct {
	ScheduleID string
}

func (e ScheduleNotFoundError) Error() string {
	return fmt.Sprintf("schedule %s not found", e.ScheduleID)
}

type InactiveScheduleError struct {
	Status ScheduleStatus
}

func (e InactiveScheduleError) Error() string {
	return fmt.Sprintf("schedule status %q does not allow enrollment", e.Status)
}

type TermsNotAcceptedError struct{}

func (TermsNotAcceptedError) Error() string {
	return "terms and conditions must be accepted"
}

type InsufficientCapacityError struct {
	Available int
	Requested int
}

func (e InsufficientCapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity: available %d, requested %d", e.Available, e.Requested)
}

type DuplicateNaturalIDError struct {
	NationalID int64
}

func (e DuplicateNaturalIDError) Error() string {
	return fmt.Sprintf("national id %d appears more than once in the batch", e.NationalID)
}

type InvalidVisitorDataError struct {
	// Label identifies the offending entry for the caller, e.g. the
	// visitor's name or its position in the batch.
	Label  string
	Fields []string
}

func (e InvalidVisitorDataError) Error() string {
	return fmt.Sprintf("invalid visitor data for %s: %v", e.Label, e.Fields)
}

type VisitorNotFoundError struct {
	VisitorID string
}

func (e VisitorNotFoundError) Error() string {
	return fmt.Sprintf("visitor %s not found", e.VisitorID)
}

type DuplicateEnrollmentError struct {
	VisitorID  string
	ScheduleID string
}

func (e DuplicateEnrollmentError) Error() string {
	return fmt.Sprintf("visitor %s is already enrolled in schedule %s", e.VisitorID, e.ScheduleID)
}

type SizeRequiredError struct {
	VisitorID    string
	ActivityName string
}

func (e SizeRequiredError) Error() string {
	return fmt.Sprintf("activity %s requires a size but visitor %s has none", e.ActivityName, e.VisitorID)
}

type MinimumAgeError struct {
	VisitorID    string
	ActivityName string
	Age          int
	MinimumAge   int
}

func (e MinimumAgeError) Error() string {
	return fmt.Sprintf("activity %s requires minimum age %d, visitor %s is %d", e.ActivityName, e.MinimumAge, e.VisitorID, e.Age)
}
