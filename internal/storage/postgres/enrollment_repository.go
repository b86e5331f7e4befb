package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrioja/parkpass/internal/domain"
)

// EnrollmentRepository backs the enrollment engine. All engine calls run
// through WithTx; the schedule row lock taken by GetScheduleForUpdate is
// what serializes concurrent batches per schedule.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

func (r *EnrollmentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *EnrollmentRepository) GetScheduleForUpdate(ctx context.Context, scheduleID string) (domain.Schedule, error) {
	const query = `
SELECT id, activity_id, starts_at, ends_at, total_capacity, occupied_capacity, status, created_at
FROM schedules
WHERE id = $1
FOR UPDATE`

	var s domain.Schedule
	var status string
	err := r.queryRow(ctx, query, scheduleID).Scan(
		&s.ID, &s.ActivityID, &s.StartsAt, &s.EndsAt,
		&s.TotalCapacity, &s.OccupiedCapacity, &status, &s.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.Schedule{}, domain.ScheduleNotFoundError{ScheduleID: scheduleID}
		}
		return domain.Schedule{}, fmt.Errorf("get schedule: %w", err)
	}
	s.Status = domain.ScheduleStatus(status)
	return s, nil
}

func (r *EnrollmentRepository) GetActivity(ctx context.Context, activityID string) (domain.Activity, error) {
	return getActivity(ctx, r, activityID)
}

func (r *EnrollmentRepository) FindVisitorByID(ctx context.Context, visitorID string) (*domain.Visitor, error) {
	const query = `
SELECT id, name, national_id, age, COALESCE(size, ''), created_at
FROM visitors
WHERE id = $1`
	return r.scanVisitor(r.queryRow(ctx, query, visitorID))
}

func (r *EnrollmentRepository) FindVisitorByNaturalID(ctx context.Context, nationalID int64) (*domain.Visitor, error) {
	const query = `
SELECT id, name, national_id, age, COALESCE(size, ''), created_at
FROM visitors
WHERE national_id = $1`
	return r.scanVisitor(r.queryRow(ctx, query, nationalID))
}

func (r *EnrollmentRepository) scanVisitor(row pgx.Row) (*domain.Visitor, error) {
	var v domain.Visitor
	var size string
	err := row.Scan(&v.ID, &v.Name, &v.NationalID, &v.Age, &size, &v.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find visitor: %w", err)
	}
	v.Size = domain.Size(size)
	return &v, nil
}

// CreateVisitor inserts a visitor row. A natural-key collision is reported
// as ErrVisitorExists via ON CONFLICT DO NOTHING rather than a constraint
// error, so the surrounding transaction stays usable and the caller can
// re-resolve by national id.
func (r *EnrollmentRepository) CreateVisitor(ctx context.Context, visitor domain.Visitor) error {
	const stmt = `
INSERT INTO visitors (id, name, national_id, age, size, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
ON CONFLICT (national_id) DO NOTHING`

	tag, err := r.exec(ctx, stmt,
		visitor.ID, visitor.Name, visitor.NationalID, visitor.Age, string(visitor.Size), visitor.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create visitor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVisitorExists
	}
	return nil
}

func (r *EnrollmentRepository) DeleteVisitor(ctx context.Context, visitorID string) error {
	if _, err := r.exec(ctx, `DELETE FROM visitors WHERE id = $1`, visitorID); err != nil {
		return fmt.Errorf("delete visitor: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) EnrollmentExists(ctx context.Context, scheduleID, visitorID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE schedule_id = $1 AND visitor_id = $2)`

	var exists bool
	if err := r.queryRow(ctx, query, scheduleID, visitorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

func (r *EnrollmentRepository) CreateEnrollments(ctx context.Context, enrollments []domain.Enrollment) error {
	const stmt = `
INSERT INTO enrollments (id, schedule_id, visitor_id, person_count, terms_accepted, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	for _, e := range enrollments {
		_, err := r.exec(ctx, stmt,
			e.ID, e.ScheduleID, e.VisitorID, e.PersonCount, e.TermsAccepted, e.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEnrollmentConflict
			}
			return fmt.Errorf("insert enrollment: %w", err)
		}
	}
	return nil
}

func (r *EnrollmentRepository) IncrementOccupied(ctx context.Context, scheduleID string, delta int) error {
	// The CHECK constraint on occupied_capacity is the last line of defense;
	// the engine has already verified availability under the row lock.
	tag, err := r.exec(ctx,
		`UPDATE schedules SET occupied_capacity = occupied_capacity + $2 WHERE id = $1`,
		scheduleID, delta,
	)
	if err != nil {
		return fmt.Errorf("increment occupied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ScheduleNotFoundError{ScheduleID: scheduleID}
	}
	return nil
}

// ListEnrollments serves the reporting surface: enrollments joined with the
// activity name and the visitor's public attributes.
func (r *EnrollmentRepository) ListEnrollments(ctx context.Context, filter domain.EnrollmentFilter) ([]domain.EnrollmentDetail, error) {
	const base = `
SELECT e.id, e.schedule_id, e.visitor_id, e.person_count, e.terms_accepted, e.created_at,
       a.name, v.name, v.national_id, v.age, COALESCE(v.size, '')
FROM enrollments e
JOIN schedules s ON s.id = e.schedule_id
JOIN activities a ON a.id = s.activity_id
JOIN visitors v ON v.id = e.visitor_id`

	var rows pgx.Rows
	var err error
	if filter.ScheduleID != "" {
		rows, err = r.query(ctx, base+`
WHERE e.schedule_id = $1
ORDER BY e.created_at, e.id`, filter.ScheduleID)
	} else {
		rows, err = r.query(ctx, base+`
ORDER BY e.created_at, e.id`)
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var out []domain.EnrollmentDetail
	for rows.Next() {
		var d domain.EnrollmentDetail
		var size string
		if err := rows.Scan(
			&d.ID, &d.ScheduleID, &d.VisitorID, &d.PersonCount, &d.TermsAccepted, &d.CreatedAt,
			&d.ActivityName, &d.VisitorName, &d.VisitorNationalID, &d.VisitorAge, &size,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		d.VisitorSize = domain.Size(size)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *EnrollmentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *EnrollmentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *EnrollmentRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
