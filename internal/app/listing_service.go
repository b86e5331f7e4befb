package app

import (
	"context"

	"github.com/mrioja/parkpass/internal/domain"
)

// ListingRepository exposes the read-only enrollment queries.
type ListingRepository interface {
	ListEnrollments(ctx context.Context, filter domain.EnrollmentFilter) ([]domain.EnrollmentDetail, error)
}

// ListingService is the reporting surface: committed enrollments joined
// with catalog and visitor data. Pure projection, no business rules.
type ListingService struct {
	repo ListingRepository
}

func NewListingService(repo ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

// ListEnrollments returns enrollments enriched with the activity name,
// ordered by creation time.
func (s *ListingService) ListEnrollments(ctx context.Context, filter domain.EnrollmentFilter) ([]domain.EnrollmentDetail, error) {
	return s.repo.ListEnrollments(ctx, filter)
}
