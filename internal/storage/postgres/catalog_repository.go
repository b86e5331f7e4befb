package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrioja/parkpass/internal/domain"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) CreateActivity(ctx context.Context, activity domain.Activity) error {
	const stmt = `
INSERT INTO activities (id, name, requires_size, minimum_age, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		activity.ID, activity.Name, activity.RequiresSize, activity.MinimumAge,
		activity.Description, activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	const query = `
SELECT id, name, requires_size, minimum_age, COALESCE(description, ''), created_at
FROM activities
ORDER BY created_at, id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.RequiresSize, &a.MinimumAge, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) GetActivity(ctx context.Context, activityID string) (domain.Activity, error) {
	return getActivity(ctx, r, activityID)
}

func (r *CatalogRepository) CreateSchedule(ctx context.Context, schedule domain.Schedule) error {
	const stmt = `
INSERT INTO schedules (id, activity_id, starts_at, ends_at, total_capacity, occupied_capacity, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		schedule.ID, schedule.ActivityID, schedule.StartsAt, schedule.EndsAt,
		schedule.TotalCapacity, schedule.OccupiedCapacity, string(schedule.Status), schedule.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrActivityNotFound
		}
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListSchedules(ctx context.Context) ([]domain.ScheduleDetail, error) {
	const query = `
SELECT s.id, s.activity_id, s.starts_at, s.ends_at, s.total_capacity, s.occupied_capacity, s.status, s.created_at,
       a.name, a.requires_size, a.minimum_age
FROM schedules s
JOIN activities a ON a.id = s.activity_id
ORDER BY s.starts_at, s.id`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []domain.ScheduleDetail
	for rows.Next() {
		var d domain.ScheduleDetail
		var status string
		if err := rows.Scan(
			&d.ID, &d.ActivityID, &d.StartsAt, &d.EndsAt,
			&d.TotalCapacity, &d.OccupiedCapacity, &status, &d.CreatedAt,
			&d.ActivityName, &d.ActivityRequiresSize, &d.ActivityMinimumAge,
		); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		d.Status = domain.ScheduleStatus(status)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) SetScheduleStatus(ctx context.Context, scheduleID string, status domain.ScheduleStatus) error {
	tag, err := r.exec(ctx,
		`UPDATE schedules SET status = $2 WHERE id = $1`,
		scheduleID, string(status),
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ScheduleNotFoundError{ScheduleID: scheduleID}
		}
		return fmt.Errorf("set schedule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ScheduleNotFoundError{ScheduleID: scheduleID}
	}
	return nil
}

// rowQuerier lets activity lookups be shared between repositories that both
// need them inside and outside transactions.
type rowQuerier interface {
	queryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getActivity(ctx context.Context, q rowQuerier, activityID string) (domain.Activity, error) {
	const query = `
SELECT id, name, requires_size, minimum_age, COALESCE(description, ''), created_at
FROM activities
WHERE id = $1`

	var a domain.Activity
	err := q.queryRow(ctx, query, activityID).Scan(
		&a.ID, &a.Name, &a.RequiresSize, &a.MinimumAge, &a.Description, &a.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.Activity{}, domain.ErrActivityNotFound
		}
		return domain.Activity{}, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (r *CatalogRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CatalogRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *CatalogRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
