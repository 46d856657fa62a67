package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/felixgeelhaar/wayfarer/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with the schema applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func TestSQLiteScheduleRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteScheduleRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	schedule := domain.NewDaySchedule(userID, date)
	location := domain.Coordinates{Latitude: 48.8606, Longitude: 2.3376}
	activity, err := schedule.AddActivity(uuid.New(), "Louvre", date.Add(10*time.Hour), date.Add(12*time.Hour), &location)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, schedule))

	found, err := repo.FindByUserAndDate(ctx, userID, date)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, schedule.ID(), found.ID())
	assert.Equal(t, userID, found.UserID())
	require.Len(t, found.Activities(), 1)

	got := found.Activities()[0]
	assert.Equal(t, activity.ID(), got.ID())
	assert.Equal(t, "Louvre", got.Title())
	assert.True(t, got.StartTime().Equal(date.Add(10*time.Hour)))
	require.NotNil(t, got.Location())
	assert.Equal(t, location, *got.Location())
}

func TestSQLiteScheduleRepository_FindMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteScheduleRepository(db)
	ctx := context.Background()

	found, err := repo.FindByUserAndDate(ctx, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSQLiteScheduleRepository_SaveRewritesActivities(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteScheduleRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	schedule := domain.NewDaySchedule(userID, date)
	activity, err := schedule.AddActivity(uuid.New(), "Museum", date.Add(10*time.Hour), date.Add(12*time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, schedule))

	// Move and remove, then save again; the stored rows must match.
	require.NoError(t, schedule.MoveActivity(activity.ID(), date.Add(14*time.Hour), date.Add(16*time.Hour)))
	_, err = schedule.AddActivity(uuid.New(), "Dinner", date.Add(18*time.Hour), date.Add(19*time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, schedule))

	found, err := repo.FindByID(ctx, schedule.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Activities(), 2)
	assert.True(t, found.Activities()[0].StartTime().Equal(date.Add(14*time.Hour)))
	assert.Equal(t, "Dinner", found.Activities()[1].Title())
}

func TestSQLiteScheduleRepository_FindByUserDateRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteScheduleRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for day := 10; day <= 12; day++ {
		date := time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC)
		schedule := domain.NewDaySchedule(userID, date)
		_, err := schedule.AddActivity(uuid.New(), "Walk", date.Add(9*time.Hour), date.Add(10*time.Hour), nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, schedule))
	}

	schedules, err := repo.FindByUserDateRange(ctx,
		userID,
		time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.True(t, schedules[0].Date().Before(schedules[1].Date()))
}

func TestSQLiteScheduleRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteScheduleRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	schedule := domain.NewDaySchedule(userID, date)
	_, err := schedule.AddActivity(uuid.New(), "Museum", date.Add(10*time.Hour), date.Add(12*time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, schedule))

	require.NoError(t, repo.Delete(ctx, schedule.ID()))

	found, err := repo.FindByID(ctx, schedule.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	// Cascade removed the activity rows too.
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scheduled_activities WHERE schedule_id = ?`, schedule.ID().String()).Scan(&count))
	assert.Zero(t, count)
}
