package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScheduleRepository implements domain.ScheduleRepository using PostgreSQL.
type PostgresScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleRepository creates a new Postgres schedule repository.
func NewPostgresScheduleRepository(pool *pgxpool.Pool) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{pool: pool}
}

// Save persists a schedule and rewrites its activities.
func (r *PostgresScheduleRepository) Save(ctx context.Context, schedule *domain.DaySchedule) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	_, err := exec.Exec(ctx, `
		INSERT INTO day_schedules (id, user_id, schedule_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at`,
		schedule.ID(),
		schedule.UserID(),
		schedule.Date(),
		schedule.CreatedAt(),
		schedule.UpdatedAt(),
	)
	if err != nil {
		return err
	}

	if _, err := exec.Exec(ctx,
		`DELETE FROM scheduled_activities WHERE schedule_id = $1`,
		schedule.ID(),
	); err != nil {
		return err
	}

	for _, activity := range schedule.Activities() {
		var placeID *uuid.UUID
		if activity.PlaceID() != uuid.Nil {
			pid := activity.PlaceID()
			placeID = &pid
		}
		var lat, lng *float64
		if loc := activity.Location(); loc != nil {
			lat = &loc.Latitude
			lng = &loc.Longitude
		}

		_, err := exec.Exec(ctx, `
			INSERT INTO scheduled_activities (
				id, schedule_id, user_id, place_id, title,
				start_time, end_time, latitude, longitude, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			activity.ID(),
			activity.ScheduleID(),
			activity.UserID(),
			placeID,
			activity.Title(),
			activity.StartTime(),
			activity.EndTime(),
			lat,
			lng,
			activity.CreatedAt(),
			activity.UpdatedAt(),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

const pgSelectSchedule = `
	SELECT id, user_id, schedule_date, created_at, updated_at
	FROM day_schedules
`

// FindByID retrieves a schedule by its ID. Returns nil when absent.
func (r *PostgresScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DaySchedule, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx, pgSelectSchedule+`WHERE id = $1`, id)
	return r.scanSchedule(ctx, row)
}

// FindByUserAndDate finds a schedule for a user on a specific date.
func (r *PostgresScheduleRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DaySchedule, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx,
		pgSelectSchedule+`WHERE user_id = $1 AND schedule_date = $2`,
		userID,
		domain.NormalizeDate(date),
	)
	return r.scanSchedule(ctx, row)
}

// FindByUserDateRange finds schedules for a user within a date range.
func (r *PostgresScheduleRepository) FindByUserDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]*domain.DaySchedule, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx,
		pgSelectSchedule+`WHERE user_id = $1 AND schedule_date BETWEEN $2 AND $3 ORDER BY schedule_date`,
		userID,
		domain.NormalizeDate(startDate),
		domain.NormalizeDate(endDate),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type scheduleRow struct {
		id, userID             uuid.UUID
		date, created, updated time.Time
	}
	raw := make([]scheduleRow, 0)
	for rows.Next() {
		var sr scheduleRow
		if err := rows.Scan(&sr.id, &sr.userID, &sr.date, &sr.created, &sr.updated); err != nil {
			return nil, err
		}
		raw = append(raw, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	schedules := make([]*domain.DaySchedule, 0, len(raw))
	for _, sr := range raw {
		activities, err := r.loadActivities(ctx, sr.id)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, domain.RehydrateDaySchedule(sr.id, sr.userID, sr.date, activities, sr.created, sr.updated))
	}
	return schedules, nil
}

// Delete removes a schedule. Activities are deleted via CASCADE.
func (r *PostgresScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `DELETE FROM day_schedules WHERE id = $1`, id)
	return err
}

func (r *PostgresScheduleRepository) scanSchedule(ctx context.Context, row pgx.Row) (*domain.DaySchedule, error) {
	var (
		id, userID             uuid.UUID
		date, created, updated time.Time
	)
	if err := row.Scan(&id, &userID, &date, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	activities, err := r.loadActivities(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateDaySchedule(id, userID, date, activities, created, updated), nil
}

func (r *PostgresScheduleRepository) loadActivities(ctx context.Context, scheduleID uuid.UUID) ([]*domain.ScheduledActivity, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, `
		SELECT id, schedule_id, user_id, place_id, title,
		       start_time, end_time, latitude, longitude, created_at, updated_at
		FROM scheduled_activities
		WHERE schedule_id = $1
		ORDER BY start_time`,
		scheduleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*domain.ScheduledActivity, 0)
	for rows.Next() {
		var (
			id, sid, userID  uuid.UUID
			placeID          *uuid.UUID
			title            string
			start, end       time.Time
			lat, lng         *float64
			created, updated time.Time
		)
		if err := rows.Scan(&id, &sid, &userID, &placeID, &title, &start, &end, &lat, &lng, &created, &updated); err != nil {
			return nil, err
		}

		pid := uuid.Nil
		if placeID != nil {
			pid = *placeID
		}
		var location *domain.Coordinates
		if lat != nil && lng != nil {
			location = &domain.Coordinates{Latitude: *lat, Longitude: *lng}
		}

		activities = append(activities, domain.RehydrateScheduledActivity(id, userID, sid, pid, title, start, end, location, created, updated))
	}
	return activities, rows.Err()
}
