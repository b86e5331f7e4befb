package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mrioja/parkpass/internal/clock"
	"github.com/mrioja/parkpass/internal/domain"
)

// CatalogRepository persists the activity/schedule catalog.
type CatalogRepository interface {
	CreateActivity(ctx context.Context, activity domain.Activity) error
	ListActivities(ctx context.Context) ([]domain.Activity, error)
	GetActivity(ctx context.Context, activityID string) (domain.Activity, error)
	CreateSchedule(ctx context.Context, schedule domain.Schedule) error
	ListSchedules(ctx context.Context) ([]domain.ScheduleDetail, error)
	SetScheduleStatus(ctx context.Context, scheduleID string, status domain.ScheduleStatus) error
}

// CatalogService manages the activity and schedule catalog. The enrollment
// engine reads this data but never writes it; occupancy is the only
// schedule field the engine owns.
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{repo: repo, clock: clk}
}

type CreateActivityInput struct {
	Name         string
	RequiresSize bool
	MinimumAge   *int
	Description  string
}

func (s *CatalogService) CreateActivity(ctx context.Context, in CreateActivityInput) (domain.Activity, error) {
	if in.Name == "" {
		return domain.Activity{}, domain.ErrActivityNameNeeded
	}
	if in.MinimumAge != nil && (*in.MinimumAge < domain.MinVisitorAge || *in.MinimumAge > domain.MaxVisitorAge) {
		return domain.Activity{}, domain.ErrInvalidMinimumAge
	}

	activity := domain.Activity{
		ID:           uuid.NewString(),
		Name:         in.Name,
		RequiresSize: in.RequiresSize,
		MinimumAge:   in.MinimumAge,
		Description:  in.Description,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

func (s *CatalogService) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	return s.repo.ListActivities(ctx)
}

type CreateScheduleInput struct {
	ActivityID    string
	StartsAt      time.Time
	EndsAt        time.Time
	TotalCapacity int
}

func (s *CatalogService) CreateSchedule(ctx context.Context, in CreateScheduleInput) (domain.Schedule, error) {
	if in.ActivityID == "" {
		return domain.Schedule{}, domain.ErrInvalidID
	}
	if in.TotalCapacity <= 0 {
		return domain.Schedule{}, domain.ErrInvalidCapacity
	}
	if !in.EndsAt.After(in.StartsAt) {
		return domain.Schedule{}, domain.ErrInvalidTimeRange
	}
	if _, err := s.repo.GetActivity(ctx, in.ActivityID); err != nil {
		return domain.Schedule{}, err
	}

	schedule := domain.Schedule{
		ID:               uuid.NewString(),
		ActivityID:       in.ActivityID,
		StartsAt:         in.StartsAt,
		EndsAt:           in.EndsAt,
		TotalCapacity:    in.TotalCapacity,
		OccupiedCapacity: 0,
		Status:           domain.ScheduleStatusActive,
		CreatedAt:        s.clock.Now(),
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return domain.Schedule{}, err
	}
	return schedule, nil
}

func (s *CatalogService) ListSchedules(ctx context.Context) ([]domain.ScheduleDetail, error) {
	return s.repo.ListSchedules(ctx)
}

func (s *CatalogService) SetScheduleStatus(ctx context.Context, scheduleID string, status domain.ScheduleStatus) error {
	if scheduleID == "" {
		return domain.ErrInvalidID
	}
	if !domain.ValidScheduleStatus(status) {
		return domain.ErrInvalidStatus
	}
	return s.repo.SetScheduleStatus(ctx, scheduleID, status)
}
