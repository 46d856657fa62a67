package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/wayfarer/internal/wishlist/domain"
	"github.com/google/uuid"
)

// SQLitePlaceRepository implements domain.PlaceRepository using SQLite.
type SQLitePlaceRepository struct {
	db *sql.DB
}

// NewSQLitePlaceRepository creates a new SQLite place repository.
func NewSQLitePlaceRepository(db *sql.DB) *SQLitePlaceRepository {
	return &SQLitePlaceRepository{db: db}
}

// Save persists a place (create or update).
func (r *SQLitePlaceRepository) Save(ctx context.Context, place *domain.SavedPlace) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	var lat, lng sql.NullFloat64
	if loc := place.Location(); loc != nil {
		lat = sql.NullFloat64{Float64: loc.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: loc.Longitude, Valid: true}
	}
	var period sql.NullString
	if p := place.PreferredPeriod(); p != nil {
		period = sql.NullString{String: string(*p), Valid: true}
	}

	_, err := querier.ExecContext(ctx, `
		INSERT INTO places (
			id, user_id, name, category, latitude, longitude,
			visit_minutes, preferred_period, open_days, open_minute, close_minute,
			archived, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			visit_minutes = excluded.visit_minutes,
			preferred_period = excluded.preferred_period,
			open_days = excluded.open_days,
			open_minute = excluded.open_minute,
			close_minute = excluded.close_minute,
			archived = excluded.archived,
			updated_at = excluded.updated_at`,
		place.ID().String(),
		place.UserID().String(),
		place.Name(),
		string(place.Category()),
		lat,
		lng,
		place.VisitMinutes(),
		period,
		place.Hours().EncodeDays(),
		place.Hours().Open().Minutes(),
		place.Hours().Close().Minutes(),
		boolToInt(place.IsArchived()),
		place.CreatedAt().UTC().Format(time.RFC3339Nano),
		place.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	return err
}

const sqliteSelectPlace = `
	SELECT id, user_id, name, category, latitude, longitude,
	       visit_minutes, preferred_period, open_days, open_minute, close_minute,
	       archived, created_at, updated_at
	FROM places
`

// FindByID finds a place by its ID. Returns nil when absent.
func (r *SQLitePlaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SavedPlace, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	row := querier.QueryRowContext(ctx, sqliteSelectPlace+`WHERE id = ?`, id.String())

	place, err := scanSQLitePlace(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return place, nil
}

// FindByUser returns a user's places ordered by name.
func (r *SQLitePlaceRepository) FindByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.SavedPlace, error) {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)

	query := sqliteSelectPlace + `WHERE user_id = ?`
	if !includeArchived {
		query += ` AND archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	places := make([]*domain.SavedPlace, 0)
	for rows.Next() {
		place, err := scanSQLitePlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	return places, rows.Err()
}

// Delete removes a place permanently.
func (r *SQLitePlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := sharedPersistence.SQLiteQuerier(ctx, r.db)
	_, err := querier.ExecContext(ctx, `DELETE FROM places WHERE id = ?`, id.String())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePlace(row rowScanner) (*domain.SavedPlace, error) {
	var (
		id, userID, name, category string
		lat, lng                   sql.NullFloat64
		visitMinutes               int
		period                     sql.NullString
		openDays                   string
		openMinute, closeMinute    int
		archived                   int64
		createdAt, updatedAt       string
	)
	if err := row.Scan(&id, &userID, &name, &category, &lat, &lng, &visitMinutes, &period, &openDays, &openMinute, &closeMinute, &archived, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	placeID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(userID)
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

	hours, err := decodeHours(openDays, openMinute, closeMinute)
	if err != nil {
		return nil, err
	}

	var location *schedulingDomain.Coordinates
	if lat.Valid && lng.Valid {
		location = &schedulingDomain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	var preferredPeriod *schedulingDomain.DayPeriod
	if period.Valid && period.String != "" {
		p, err := schedulingDomain.ParseDayPeriod(period.String)
		if err != nil {
			return nil, err
		}
		preferredPeriod = &p
	}

	return domain.RehydrateSavedPlace(
		placeID,
		uid,
		name,
		domain.PlaceCategory(category),
		location,
		visitMinutes,
		preferredPeriod,
		hours,
		archived != 0,
		created,
		updated,
	), nil
}

func decodeHours(openDays string, openMinute, closeMinute int) (schedulingDomain.BusinessHours, error) {
	days, err := schedulingDomain.DecodeDays(openDays)
	if err != nil {
		return schedulingDomain.BusinessHours{}, err
	}
	open, err := schedulingDomain.TimeOfDayFromMinutes(openMinute)
	if err != nil {
		return schedulingDomain.BusinessHours{}, err
	}
	closeAt, err := schedulingDomain.TimeOfDayFromMinutes(closeMinute)
	if err != nil {
		return schedulingDomain.BusinessHours{}, err
	}
	return schedulingDomain.NewBusinessHours(days, open, closeAt)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
