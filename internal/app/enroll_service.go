package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mrioja/parkpass/internal/clock"
	"github.com/mrioja/parkpass/internal/domain"
	"github.com/mrioja/parkpass/internal/platform/metrics"
)

// EnrollmentRepository is the storage surface the enrollment engine needs.
// WithTx must run fn inside one transaction; GetScheduleForUpdate must hold
// an exclusive row lock on the schedule until that transaction resolves.
// CreateVisitor must report a natural-key collision as ErrVisitorExists
// without invalidating the surrounding transaction; the engine re-resolves
// by national id right after.
type EnrollmentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetScheduleForUpdate(ctx context.Context, scheduleID string) (domain.Schedule, error)
	GetActivity(ctx context.Context, activityID string) (domain.Activity, error)
	FindVisitorByID(ctx context.Context, visitorID string) (*domain.Visitor, error)
	FindVisitorByNaturalID(ctx context.Context, nationalID int64) (*domain.Visitor, error)
	CreateVisitor(ctx context.Context, visitor domain.Visitor) error
	DeleteVisitor(ctx context.Context, visitorID string) error
	EnrollmentExists(ctx context.Context, scheduleID, visitorID string) (bool, error)
	CreateEnrollments(ctx context.Context, enrollments []domain.Enrollment) error
	IncrementOccupied(ctx context.Context, scheduleID string, delta int) error
}

// EnrollService validates and executes enrollment batches: it resolves or
// creates visitor identities, checks eligibility, and commits capacity
// changes together with enrollment records as one atomic unit.
type EnrollService struct {
	repo       EnrollmentRepository
	clock      clock.Clock
	logger     *slog.Logger
	metrics    *metrics.Metrics
	maxRetries int
}

const defaultMaxRetries = 3

func NewEnrollService(repo EnrollmentRepository, clk clock.Clock, opts ...EnrollServiceOption) *EnrollService {
	svc := &EnrollService{
		repo:       repo,
		clock:      clk,
		logger:     slog.Default(),
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type EnrollServiceOption func(*EnrollService)

func WithLogger(logger *slog.Logger) EnrollServiceOption {
	return func(s *EnrollService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) EnrollServiceOption {
	return func(s *EnrollService) {
		s.metrics = m
	}
}

// WithMaxRetries overrides how many times a batch is retried after a
// transaction serialization conflict.
func WithMaxRetries(n int) EnrollServiceOption {
	return func(s *EnrollService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

type EnrollInput struct {
	ScheduleID    string
	Visitors      []domain.VisitorInput
	TermsAccepted bool
}

// Enroll runs the full batch contract. On success it returns one committed
// enrollment per visitor, in input order, enriched with the activity name
// and the resolved visitor's attributes. On failure nothing remains: any
// visitor created during the attempt is deleted before the error returns.
func (s *EnrollService) Enroll(ctx context.Context, in EnrollInput) ([]domain.EnrollmentDetail, error) {
	start := s.clock.Now()

	if len(in.Visitors) == 0 {
		s.metrics.ObserveRejection("empty_visitor_list")
		return nil, domain.EmptyVisitorListError{}
	}

	var results []domain.EnrollmentDetail
	var err error
	for attempt := 0; ; attempt++ {
		results, err = s.enrollOnce(ctx, in)
		if !errors.Is(err, domain.ErrSerializationFailed) || attempt+1 >= s.maxRetries {
			break
		}
		s.logger.Warn("enroll batch conflicted, retrying",
			"schedule_id", in.ScheduleID, "attempt", attempt+1)
	}

	s.metrics.ObserveEnrollSeconds(s.clock.Now().Sub(start).Seconds())

	if err != nil {
		s.metrics.ObserveRejection(rejectionReason(err))
		if errors.Is(err, domain.ErrSerializationFailed) {
			return nil, fmt.Errorf("enroll batch: %w", err)
		}
		return nil, err
	}

	s.metrics.ObserveCommit(len(results))
	s.logger.Info("enrollment batch committed",
		"schedule_id", in.ScheduleID, "visitors", len(results))
	return results, nil
}

func (s *EnrollService) enrollOnce(ctx context.Context, in EnrollInput) ([]domain.EnrollmentDetail, error) {
	now := s.clock.Now()
	var results []domain.EnrollmentDetail
	batch := newBatchState(s)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		batch.ctx = txCtx

		schedule, err := s.repo.GetScheduleForUpdate(txCtx, in.ScheduleID)
		if err != nil {
			return err
		}
		if schedule.Status != domain.ScheduleStatusActive {
			return domain.InactiveScheduleError{Status: schedule.Status}
		}
		if !in.TermsAccepted {
			return domain.TermsNotAcceptedError{}
		}
		// The whole batch is compared against availability up front, not
		// seat by seat.
		if available := schedule.Available(); available < len(in.Visitors) {
			return domain.InsufficientCapacityError{
				Available: available,
				Requested: len(in.Visitors),
			}
		}
		if err := checkBatchNaturalIDs(in.Visitors); err != nil {
			return err
		}

		activity, err := s.repo.GetActivity(txCtx, schedule.ActivityID)
		if err != nil {
			return fmt.Errorf("load activity %s: %w", schedule.ActivityID, err)
		}

		enrollments := make([]domain.Enrollment, 0, len(in.Visitors))
		details := make([]domain.EnrollmentDetail, 0, len(in.Visitors))
		for i, input := range in.Visitors {
			visitor, err := batch.resolveVisitor(input, i, now)
			if err != nil {
				return err
			}

			exists, err := s.repo.EnrollmentExists(txCtx, schedule.ID, visitor.ID)
			if err != nil {
				return fmt.Errorf("check existing enrollment: %w", err)
			}
			if exists {
				return domain.DuplicateEnrollmentError{
					VisitorID:  visitor.ID,
					ScheduleID: schedule.ID,
				}
			}
			if activity.RequiresSize && visitor.Size == "" {
				return domain.SizeRequiredError{
					VisitorID:    visitor.ID,
					ActivityName: activity.Name,
				}
			}
			if activity.MinimumAge != nil && visitor.Age < *activity.MinimumAge {
				return domain.MinimumAgeError{
					VisitorID:    visitor.ID,
					ActivityName: activity.Name,
					Age:          visitor.Age,
					MinimumAge:   *activity.MinimumAge,
				}
			}

			enrollment := domain.Enrollment{
				ID:            uuid.NewString(),
				ScheduleID:    schedule.ID,
				VisitorID:     visitor.ID,
				PersonCount:   1,
				TermsAccepted: in.TermsAccepted,
				CreatedAt:     now,
			}
			enrollments = append(enrollments, enrollment)
			details = append(details, domain.EnrollmentDetail{
				Enrollment:        enrollment,
				ActivityName:      activity.Name,
				VisitorName:       visitor.Name,
				VisitorNationalID: visitor.NationalID,
				VisitorAge:        visitor.Age,
				VisitorSize:       visitor.Size,
			})
		}

		if err := s.repo.CreateEnrollments(txCtx, enrollments); err != nil {
			if errors.Is(err, domain.ErrEnrollmentConflict) {
				// Two entries in the batch resolved to the same visitor.
				return domain.DuplicateEnrollmentError{ScheduleID: schedule.ID}
			}
			return fmt.Errorf("create enrollments: %w", err)
		}
		if err := s.repo.IncrementOccupied(txCtx, schedule.ID, len(in.Visitors)); err != nil {
			return fmt.Errorf("increment occupancy: %w", err)
		}

		results = details
		return nil
	})
	if err != nil {
		batch.compensate(ctx)
		return nil, err
	}
	return results, nil
}

// checkBatchNaturalIDs rejects batches where the same national id appears
// in more than one literal tuple, before any visitor is touched.
func checkBatchNaturalIDs(visitors []domain.VisitorInput) error {
	seen := make(map[int64]struct{}, len(visitors))
	for _, in := range visitors {
		if in.ByReference() || in.NationalID <= 0 {
			continue
		}
		if _, dup := seen[in.NationalID]; dup {
			return domain.DuplicateNaturalIDError{NationalID: in.NationalID}
		}
		seen[in.NationalID] = struct{}{}
	}
	return nil
}

// batchState tracks visitors created during one enrollment attempt so they
// can be compensated uniformly on any failure path. ctx is set to the
// transaction context when the attempt starts.
type batchState struct {
	svc     *EnrollService
	ctx     context.Context
	created []domain.Visitor
}

func newBatchState(svc *EnrollService) *batchState {
	return &batchState{svc: svc}
}

// compensate deletes visitors created during a failed attempt, newest
// first. It runs after the transaction has resolved: a rolled-back
// transaction has already discarded the rows, making these deletes no-ops
// there, while repositories that persist writes immediately rely on them.
// A background context is used so a canceled request still leaves no
// partial identities behind.
func (b *batchState) compensate(ctx context.Context) {
	if len(b.created) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for i := len(b.created) - 1; i >= 0; i-- {
		v := b.created[i]
		if err := b.svc.repo.DeleteVisitor(ctx, v.ID); err != nil {
			b.svc.logger.Error("compensating visitor delete failed",
				"visitor_id", v.ID, "error", err)
		}
	}
}

// resolveVisitor implements the tagged-variant resolution: reference form
// looks up by visitor id; tuple form resolves by national id or validates
// and creates, recording the creation for compensation.
func (b *batchState) resolveVisitor(in domain.VisitorInput, index int, now time.Time) (domain.Visitor, error) {
	if in.ByReference() {
		found, err := b.svc.repo.FindVisitorByID(b.ctx, in.VisitorID)
		if err != nil {
			return domain.Visitor{}, fmt.Errorf("find visitor %s: %w", in.VisitorID, err)
		}
		if found == nil {
			return domain.Visitor{}, domain.VisitorNotFoundError{VisitorID: in.VisitorID}
		}
		return *found, nil
	}

	if in.NationalID > 0 {
		found, err := b.svc.repo.FindVisitorByNaturalID(b.ctx, in.NationalID)
		if err != nil {
			return domain.Visitor{}, fmt.Errorf("find visitor by national id: %w", err)
		}
		if found != nil {
			return *found, nil
		}
	}

	if fields := in.InvalidFields(); len(fields) > 0 {
		return domain.Visitor{}, domain.InvalidVisitorDataError{
			Label:  visitorLabel(in, index),
			Fields: fields,
		}
	}

	visitor := domain.Visitor{
		ID:         uuid.NewString(),
		Name:       in.Name,
		NationalID: in.NationalID,
		Age:        in.Age,
		Size:       in.Size,
		CreatedAt:  now,
	}
	if err := b.svc.repo.CreateVisitor(b.ctx, visitor); err != nil {
		if errors.Is(err, domain.ErrVisitorExists) {
			// A concurrent batch created the same natural id first;
			// resolution is idempotent, so adopt that visitor.
			found, ferr := b.svc.repo.FindVisitorByNaturalID(b.ctx, in.NationalID)
			if ferr != nil {
				return domain.Visitor{}, fmt.Errorf("re-resolve visitor: %w", ferr)
			}
			if found != nil {
				return *found, nil
			}
		}
		return domain.Visitor{}, fmt.Errorf("create visitor: %w", err)
	}
	b.created = append(b.created, visitor)
	b.svc.metrics.ObserveVisitorCreated()
	return visitor, nil
}

func visitorLabel(in domain.VisitorInput, index int) string {
	if in.Name != "" {
		return in.Name
	}
	return fmt.Sprintf("visitor #%d", index+1)
}

func rejectionReason(err error) string {
	switch err.(type) {
	case domain.EmptyVisitorListError:
		return "empty_visitor_list"
	case domain.ScheduleNotFoundError:
		return "schedule_not_found"
	case domain.InactiveScheduleError:
		return "inactive_schedule"
	case domain.TermsNotAcceptedError:
		return "terms_not_accepted"
	case domain.InsufficientCapacityError:
		return "insufficient_capacity"
	case domain.DuplicateNaturalIDError:
		return "duplicate_national_id"
	case domain.InvalidVisitorDataError:
		return "invalid_visitor_data"
	case domain.VisitorNotFoundError:
		return "visitor_not_found"
	case domain.DuplicateEnrollmentError:
		return "duplicate_enrollment"
	case domain.SizeRequiredError:
		return "size_required"
	case domain.MinimumAgeError:
		return "minimum_age_not_met"
	}
	return "infrastructure"
}
