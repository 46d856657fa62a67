package domain

import "sort"

// Alternative search bounds. Only the original calendar date is searched;
// cross-day suggestions are intentionally out of scope.
const (
	// DefaultMaxAlternatives is the suggestion cap.
	DefaultMaxAlternatives = 6

	// searchStartMinutes is 08:00, the first candidate slot.
	searchStartMinutes = 8 * 60

	// searchEndMinutes is 20:00, the last candidate slot (inclusive).
	searchEndMinutes = 20 * 60
)

// AlternativeFinder searches the half-hour grid of the candidate's date for
// placements that pass the full rule pipeline, ranked by closeness to the
// originally requested time.
type AlternativeFinder struct {
	validator  *Validator
	maxResults int
}

// NewAlternativeFinder creates a finder around an existing validator.
func NewAlternativeFinder(validator *Validator, maxResults int) *AlternativeFinder {
	if maxResults <= 0 {
		maxResults = DefaultMaxAlternatives
	}
	return &AlternativeFinder{validator: validator, maxResults: maxResults}
}

// FindAlternatives enumerates every half-hour slot between 08:00 and 20:00
// on the candidate's date, keeps the ones the validator accepts, and returns
// them sorted by descending score. A slot scores max(0, 100 - |minutes away
// from the original request|).
func (f *AlternativeFinder) FindAlternatives(original Candidate, vc ValidationContext) []AlternativeSlot {
	alternatives := make([]AlternativeSlot, 0)

	for minutes := searchStartMinutes; minutes <= searchEndMinutes; minutes += SlotMinutes {
		start, err := TimeOfDayFromMinutes(minutes)
		if err != nil {
			continue
		}

		candidate := original
		candidate.Start = start
		if result := f.validator.Validate(candidate, vc); !result.Valid {
			continue
		}

		alternatives = append(alternatives, AlternativeSlot{
			Start: start,
			Date:  original.Date,
			Score: slotScore(original.Start, start),
		})
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].Score > alternatives[j].Score
	})

	if len(alternatives) > f.maxResults {
		alternatives = alternatives[:f.maxResults]
	}
	return alternatives
}

func slotScore(requested, candidate TimeOfDay) int {
	delta := candidate.Sub(requested)
	if delta < 0 {
		delta = -delta
	}
	score := 100 - delta
	if score < 0 {
		return 0
	}
	return score
}
