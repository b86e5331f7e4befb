package domain

import "time"

// Enrollment binds one visitor to one schedule. The pair
// (ScheduleID, VisitorID) is unique; rows are created exactly once per
// committed reservation and never mutated or deleted by the engine.
type Enrollment struct {
	ID         string
	ScheduleID string
	VisitorID  string
	// PersonCount is always 1: one row per visitor per schedule.
	PersonCount   int
	TermsAccepted bool
	CreatedAt     time.Time
}

// EnrollmentDetail enriches an enrollment with the related activity name
// and, optionally, the visitor's public attributes for reporting.
type EnrollmentDetail struct {
	Enrollment
	ActivityName string

	VisitorName       string
	VisitorNationalID int64
	VisitorAge        int
	VisitorSize       Size
}

// EnrollmentFilter narrows listing queries; zero value means no filter.
type EnrollmentFilter struct {
	ScheduleID string
}
