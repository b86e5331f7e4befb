package domain

import "time"

// Size is a garment size code used by activities that require one.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

var validSizes = map[Size]struct{}{
	SizeXS: {}, SizeS: {}, SizeM: {}, SizeL: {}, SizeXL: {}, SizeXXL: {},
}

// ValidSize reports whether s is one of the enumerated size codes.
func ValidSize(s Size) bool {
	_, ok := validSizes[s]
	return ok
}

// Visitor is a person identity keyed by a natural identifier (national id).
// Visitors are created once and never mutated; the enrollment engine only
// deletes a visitor as compensating rollback within the same failed batch
// that created it.
type Visitor struct {
	ID         string
	Name       string
	NationalID int64
	Age        int
	// Size is empty when the visitor has not declared one.
	Size      Size
	CreatedAt time.Time
}

// VisitorInput is the tagged variant accepted by the enrollment engine:
// either a reference to an existing visitor, or a natural-key tuple used
// to resolve-or-create.
type VisitorInput struct {
	// VisitorID selects the reference form when non-empty; the remaining
	// fields are ignored in that case.
	VisitorID string

	Name       string
	NationalID int64
	Age        int
	Size       Size
}

// ByReference reports whether the input refers to an existing visitor id.
func (in VisitorInput) ByReference() bool {
	return in.VisitorID != ""
}

const (
	MinVisitorAge = 0
	MaxVisitorAge = 120
)

// InvalidFields validates the natural-key tuple form and returns the names
// of missing or invalid fields, or nil when the tuple is acceptable.
// Name must be non-empty alphanumeric with spaces, national id positive,
// age within [0,120], and size (when given) one of the enumerated codes.
func (in VisitorInput) InvalidFields() []string {
	var fields []string
	if !validVisitorName(in.Name) {
		fields = append(fields, "name")
	}
	if in.NationalID <= 0 {
		fields = append(fields, "national_id")
	}
	if in.Age < MinVisitorAge || in.Age > MaxVisitorAge {
		fields = append(fields, "age")
	}
	if in.Size != "" && !ValidSize(in.Size) {
		fields = append(fields, "size")
	}
	return fields
}

func validVisitorName(name string) bool {
	seen := false
	for _, r := range name {
		switch {
		case r == ' ':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			seen = true
		default:
			return false
		}
	}
	return seen
}
