package domain

import "time"

// Activity represents a bookable park experience with optional
// eligibility rules (size requirement, minimum age).
type Activity struct {
	ID           string
	Name         string
	RequiresSize bool
	// MinimumAge is the inclusive lower bound for participants; nil
	// means the activity has no age restriction.
	MinimumAge  *int
	Description string
	CreatedAt   time.Time
}
