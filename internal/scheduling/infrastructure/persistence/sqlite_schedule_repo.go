package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// SQLiteScheduleRepository implements domain.ScheduleRepository using SQLite.
type SQLiteScheduleRepository struct {
	db *sql.DB
}

// NewSQLiteScheduleRepository creates a new SQLite schedule repository.
func NewSQLiteScheduleRepository(db *sql.DB) *SQLiteScheduleRepository {
	return &SQLiteScheduleRepository{db: db}
}

// Save persists a schedule and rewrites its activities.
func (r *SQLiteScheduleRepository) Save(ctx context.Context, schedule *domain.DaySchedule) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	_, err := querier.ExecContext(ctx, `
		INSERT INTO day_schedules (id, user_id, schedule_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		schedule.ID().String(),
		schedule.UserID().String(),
		schedule.Date().Format(dateLayout),
		schedule.CreatedAt().UTC().Format(time.RFC3339Nano),
		schedule.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	// Rewrite the activity rows wholesale; the aggregate is small.
	if _, err := querier.ExecContext(ctx,
		`DELETE FROM scheduled_activities WHERE schedule_id = ?`,
		schedule.ID().String(),
	); err != nil {
		return err
	}

	for _, activity := range schedule.Activities() {
		var placeID sql.NullString
		if activity.PlaceID() != uuid.Nil {
			placeID = sql.NullString{String: activity.PlaceID().String(), Valid: true}
		}
		var lat, lng sql.NullFloat64
		if loc := activity.Location(); loc != nil {
			lat = sql.NullFloat64{Float64: loc.Latitude, Valid: true}
			lng = sql.NullFloat64{Float64: loc.Longitude, Valid: true}
		}

		_, err := querier.ExecContext(ctx, `
			INSERT INTO scheduled_activities (
				id, schedule_id, user_id, place_id, title,
				start_time, end_time, latitude, longitude, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			activity.ID().String(),
			activity.ScheduleID().String(),
			activity.UserID().String(),
			placeID,
			activity.Title(),
			activity.StartTime().UTC().Format(time.RFC3339Nano),
			activity.EndTime().UTC().Format(time.RFC3339Nano),
			lat,
			lng,
			activity.CreatedAt().UTC().Format(time.RFC3339Nano),
			activity.UpdatedAt().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

const sqliteSelectSchedule = `
	SELECT id, user_id, schedule_date, created_at, updated_at
	FROM day_schedules
`

// FindByID retrieves a schedule by its ID. Returns nil when absent.
func (r *SQLiteScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DaySchedule, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	row := querier.QueryRowContext(ctx, sqliteSelectSchedule+`WHERE id = ?`, id.String())
	return r.scanSchedule(ctx, row)
}

// FindByUserAndDate finds a schedule for a user on a specific date.
func (r *SQLiteScheduleRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DaySchedule, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	row := querier.QueryRowContext(ctx,
		sqliteSelectSchedule+`WHERE user_id = ? AND schedule_date = ?`,
		userID.String(),
		domain.NormalizeDate(date).Format(dateLayout),
	)
	return r.scanSchedule(ctx, row)
}

// FindByUserDateRange finds schedules for a user within a date range.
func (r *SQLiteScheduleRepository) FindByUserDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) ([]*domain.DaySchedule, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	rows, err := querier.QueryContext(ctx,
		sqliteSelectSchedule+`WHERE user_id = ? AND schedule_date >= ? AND schedule_date <= ? ORDER BY schedule_date`,
		userID.String(),
		domain.NormalizeDate(startDate).Format(dateLayout),
		domain.NormalizeDate(endDate).Format(dateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type scheduleRow struct {
		id, userID, date, createdAt, updatedAt string
	}
	raw := make([]scheduleRow, 0)
	for rows.Next() {
		var sr scheduleRow
		if err := rows.Scan(&sr.id, &sr.userID, &sr.date, &sr.createdAt, &sr.updatedAt); err != nil {
			return nil, err
		}
		raw = append(raw, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	schedules := make([]*domain.DaySchedule, 0, len(raw))
	for _, sr := range raw {
		schedule, err := r.rehydrate(ctx, sr.id, sr.userID, sr.date, sr.createdAt, sr.updatedAt)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

// Delete removes a schedule. Activities are deleted via CASCADE.
func (r *SQLiteScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	_, err := querier.ExecContext(ctx, `DELETE FROM day_schedules WHERE id = ?`, id.String())
	return err
}

func (r *SQLiteScheduleRepository) scanSchedule(ctx context.Context, row *sql.Row) (*domain.DaySchedule, error) {
	var id, userID, date, createdAt, updatedAt string
	if err := row.Scan(&id, &userID, &date, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.rehydrate(ctx, id, userID, date, createdAt, updatedAt)
}

func (r *SQLiteScheduleRepository) rehydrate(ctx context.Context, id, userID, date, createdAt, updatedAt string) (*domain.DaySchedule, error) {
	scheduleID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	scheduleDate, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, err
	}

	activities, err := r.loadActivities(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateDaySchedule(scheduleID, uid, scheduleDate, activities, created, updated), nil
}

func (r *SQLiteScheduleRepository) loadActivities(ctx context.Context, scheduleID uuid.UUID) ([]*domain.ScheduledActivity, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	rows, err := querier.QueryContext(ctx, `
		SELECT id, schedule_id, user_id, place_id, title,
		       start_time, end_time, latitude, longitude, created_at, updated_at
		FROM scheduled_activities
		WHERE schedule_id = ?
		ORDER BY start_time`,
		scheduleID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*domain.ScheduledActivity, 0)
	for rows.Next() {
		var (
			id, sid, userID, title               string
			placeID                              sql.NullString
			startTime, endTime, created, updated string
			lat, lng                             sql.NullFloat64
		)
		if err := rows.Scan(&id, &sid, &userID, &placeID, &title, &startTime, &endTime, &lat, &lng, &created, &updated); err != nil {
			return nil, err
		}

		activity, err := rehydrateActivityRow(id, sid, userID, placeID, title, startTime, endTime, lat, lng, created, updated)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func rehydrateActivityRow(
	id, sid, userID string,
	placeID sql.NullString,
	title, startTime, endTime string,
	lat, lng sql.NullFloat64,
	createdAt, updatedAt string,
) (*domain.ScheduledActivity, error) {
	activityID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	scheduleID, err := uuid.Parse(sid)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	pid := uuid.Nil
	if placeID.Valid {
		pid, err = uuid.Parse(placeID.String)
		if err != nil {
			return nil, err
		}
	}

	start, err := time.Parse(time.RFC3339Nano, startTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339Nano, endTime)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, err
	}

	var location *domain.Coordinates
	if lat.Valid && lng.Valid {
		location = &domain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}

	return domain.RehydrateScheduledActivity(activityID, uid, scheduleID, pid, title, start, end, location, created, updated), nil
}
