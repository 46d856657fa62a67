package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/wayfarer/internal/dragdrop/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragItem_Validate(t *testing.T) {
	t.Run("wishlist item", func(t *testing.T) {
		item := testItem()
		assert.NoError(t, item.Validate())

		item.PlaceID = uuid.Nil
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidDragItem)
	})

	t.Run("activity item", func(t *testing.T) {
		item := domain.DragItem{
			ID:              uuid.New(),
			Kind:            domain.ItemKindActivity,
			Source:          domain.SourceCalendar,
			Title:           "Louvre",
			ActivityID:      uuid.New(),
			DurationMinutes: 60,
		}
		assert.NoError(t, item.Validate())

		item.ActivityID = uuid.Nil
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidDragItem)
	})

	t.Run("missing basics", func(t *testing.T) {
		item := testItem()
		item.Title = ""
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidDragItem)

		item = testItem()
		item.DurationMinutes = 0
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidDragItem)

		item = testItem()
		item.Kind = domain.ItemKind("folder")
		assert.ErrorIs(t, item.Validate(), domain.ErrInvalidDragItem)
	})
}

func TestTargetSlot_Snapped(t *testing.T) {
	slot := testSlot("10:13")
	snapped := slot.Snapped()
	assert.Equal(t, "10:00", snapped.Start.String())

	slot = testSlot("10:47")
	assert.Equal(t, "11:00", slot.Snapped().Start.String())

	// End time follows the item duration.
	end := snapped.EndTime(90)
	assert.Equal(t, 11, end.Hour())
	assert.Equal(t, 30, end.Minute())
}

func TestPreferences_Apply(t *testing.T) {
	prefs := domain.DefaultPreferences()
	require.True(t, prefs.SnapToGrid)
	require.Equal(t, 300, prefs.LongPressDelayMs)

	snap := false
	delay := 500
	updated := prefs.Apply(domain.PreferencesPatch{
		SnapToGrid:       &snap,
		LongPressDelayMs: &delay,
	})

	assert.False(t, updated.SnapToGrid)
	assert.Equal(t, 500, updated.LongPressDelayMs)
	// Untouched fields keep their values.
	assert.Equal(t, prefs.DragThreshold, updated.DragThreshold)
	assert.True(t, updated.ShowPreview)
}
