package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusActive   ScheduleStatus = "active"
	ScheduleStatusInactive ScheduleStatus = "inactive"
)

// ValidScheduleStatus reports whether s is one of the recognized states.
func ValidScheduleStatus(s ScheduleStatus) bool {
	return s == ScheduleStatusActive || s == ScheduleStatusInactive
}

// Schedule is a capacity-bounded time slot for an activity.
// Invariant: 0 <= OccupiedCapacity <= TotalCapacity. Only the enrollment
// engine increments OccupiedCapacity, and only inside a committed batch.
type Schedule struct {
	ID               string
	ActivityID       string
	StartsAt         time.Time
	EndsAt           time.Time
	TotalCapacity    int
	OccupiedCapacity int
	Status           ScheduleStatus
	CreatedAt        time.Time
}

// Available returns the number of unclaimed seats.
func (s Schedule) Available() int {
	return s.TotalCapacity - s.OccupiedCapacity
}

// ScheduleDetail joins a schedule with its activity for listings.
type ScheduleDetail struct {
	Schedule
	ActivityName         string
	ActivityRequiresSize bool
	ActivityMinimumAge   *int
}
