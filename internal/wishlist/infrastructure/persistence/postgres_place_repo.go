package persistence

import (
	"context"
	"errors"
	"time"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/wayfarer/internal/wishlist/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPlaceRepository implements domain.PlaceRepository using PostgreSQL.
type PostgresPlaceRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlaceRepository creates a new Postgres place repository.
func NewPostgresPlaceRepository(pool *pgxpool.Pool) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{pool: pool}
}

// Save persists a place (create or update).
func (r *PostgresPlaceRepository) Save(ctx context.Context, place *domain.SavedPlace) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	var lat, lng *float64
	if loc := place.Location(); loc != nil {
		lat = &loc.Latitude
		lng = &loc.Longitude
	}
	var period *string
	if p := place.PreferredPeriod(); p != nil {
		s := string(*p)
		period = &s
	}

	_, err := exec.Exec(ctx, `
		INSERT INTO places (
			id, user_id, name, category, latitude, longitude,
			visit_minutes, preferred_period, open_days, open_minute, close_minute,
			archived, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			visit_minutes = EXCLUDED.visit_minutes,
			preferred_period = EXCLUDED.preferred_period,
			open_days = EXCLUDED.open_days,
			open_minute = EXCLUDED.open_minute,
			close_minute = EXCLUDED.close_minute,
			archived = EXCLUDED.archived,
			updated_at = EXCLUDED.updated_at`,
		place.ID(),
		place.UserID(),
		place.Name(),
		string(place.Category()),
		lat,
		lng,
		place.VisitMinutes(),
		period,
		place.Hours().EncodeDays(),
		place.Hours().Open().Minutes(),
		place.Hours().Close().Minutes(),
		place.IsArchived(),
		place.CreatedAt(),
		place.UpdatedAt(),
	)
	return err
}

const pgSelectPlace = `
	SELECT id, user_id, name, category, latitude, longitude,
	       visit_minutes, preferred_period, open_days, open_minute, close_minute,
	       archived, created_at, updated_at
	FROM places
`

// FindByID finds a place by its ID. Returns nil when absent.
func (r *PostgresPlaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SavedPlace, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx, pgSelectPlace+`WHERE id = $1`, id)

	place, err := scanPostgresPlace(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return place, nil
}

// FindByUser returns a user's places ordered by name.
func (r *PostgresPlaceRepository) FindByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.SavedPlace, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	query := pgSelectPlace + `WHERE user_id = $1`
	if !includeArchived {
		query += ` AND archived = FALSE`
	}
	query += ` ORDER BY name`

	rows, err := exec.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	places := make([]*domain.SavedPlace, 0)
	for rows.Next() {
		place, err := scanPostgresPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	return places, rows.Err()
}

// Delete removes a place permanently.
func (r *PostgresPlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	return err
}

func scanPostgresPlace(row pgx.Row) (*domain.SavedPlace, error) {
	var (
		id, userID              uuid.UUID
		name, category          string
		lat, lng                *float64
		visitMinutes            int
		period                  *string
		openDays                string
		openMinute, closeMinute int
		archived                bool
		createdAt, updatedAt    time.Time
	)
	if err := row.Scan(&id, &userID, &name, &category, &lat, &lng, &visitMinutes, &period, &openDays, &openMinute, &closeMinute, &archived, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	hours, err := decodeHours(openDays, openMinute, closeMinute)
	if err != nil {
		return nil, err
	}

	var location *schedulingDomain.Coordinates
	if lat != nil && lng != nil {
		location = &schedulingDomain.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	var preferredPeriod *schedulingDomain.DayPeriod
	if period != nil && *period != "" {
		p, err := schedulingDomain.ParseDayPeriod(*period)
		if err != nil {
			return nil, err
		}
		preferredPeriod = &p
	}

	return domain.RehydrateSavedPlace(
		id,
		userID,
		name,
		domain.PlaceCategory(category),
		location,
		visitMinutes,
		preferredPeriod,
		hours,
		archived,
		createdAt,
		updatedAt,
	), nil
}
