package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_SuggestsAlternativesOnConflict(t *testing.T) {
	// Business hours 09:00-18:00, one booking 14:00-15:00. Dropping a
	// 60 minute visit at 14:30 conflicts; the closest free grid slot is
	// 15:30, which must outrank the distant 09:00 slot.
	pipeline := domain.DefaultPipeline()
	vc := contextWith(t, [2]string{"14:00", "15:00"})

	result := pipeline.Validate(candidateAt(t, "14:30", 60), vc)

	require.False(t, result.Valid)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, at(t, "14:00"), result.Conflicts[0].Start)
	assert.Equal(t, at(t, "15:00"), result.Conflicts[0].End)

	require.NotEmpty(t, result.Alternatives)
	assert.LessOrEqual(t, len(result.Alternatives), domain.DefaultMaxAlternatives)

	best := result.Alternatives[0]
	assert.Equal(t, domain.MustTimeOfDay(15, 30), best.Start)
	assert.Equal(t, 40, best.Score)
	assert.Equal(t, testDate(), best.Date)

	scoreOf := func(tod domain.TimeOfDay) (int, bool) {
		for _, alt := range result.Alternatives {
			if alt.Start == tod {
				return alt.Score, true
			}
		}
		return 0, false
	}

	sixteen, ok := scoreOf(domain.MustTimeOfDay(16, 0))
	require.True(t, ok)
	assert.Equal(t, 10, sixteen)

	if nine, ok := scoreOf(domain.MustTimeOfDay(9, 0)); ok {
		assert.Less(t, nine, best.Score)
	}
}

func TestPipeline_ValidResultHasNoAlternatives(t *testing.T) {
	pipeline := domain.DefaultPipeline()
	vc := contextWith(t, [2]string{"14:00", "15:00"})

	result := pipeline.Validate(candidateAt(t, "10:00", 60), vc)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Alternatives)
}

func TestAlternativeFinder_SortedAndTruncated(t *testing.T) {
	finder := domain.NewAlternativeFinder(domain.DefaultValidator(), 6)
	vc := contextWith(t)

	alternatives := finder.FindAlternatives(candidateAt(t, "12:00", 30), vc)

	require.Len(t, alternatives, 6)
	for i := 1; i < len(alternatives); i++ {
		assert.GreaterOrEqual(t, alternatives[i-1].Score, alternatives[i].Score)
	}
	// The requested slot itself is free and scores a perfect 100.
	assert.Equal(t, domain.MustTimeOfDay(12, 0), alternatives[0].Start)
	assert.Equal(t, 100, alternatives[0].Score)
}

func TestAlternativeFinder_RespectsBusinessHours(t *testing.T) {
	finder := domain.NewAlternativeFinder(domain.DefaultValidator(), 30)
	vc := contextWith(t)

	alternatives := finder.FindAlternatives(candidateAt(t, "08:00", 30), vc)

	require.NotEmpty(t, alternatives)
	for _, alt := range alternatives {
		assert.False(t, alt.Start.Before(domain.MustTimeOfDay(9, 0)), "slot %s is before opening", alt.Start)
		assert.False(t, alt.Start.After(domain.MustTimeOfDay(17, 30)), "slot %s would run past close", alt.Start)
	}
}

func TestAlternativeFinder_FullyBookedDay(t *testing.T) {
	finder := domain.NewAlternativeFinder(domain.DefaultValidator(), 6)
	vc := contextWith(t, [2]string{"09:00", "18:00"})

	alternatives := finder.FindAlternatives(candidateAt(t, "12:00", 30), vc)

	assert.Empty(t, alternatives)
}
