package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
)

// FreeGapDTO is a data transfer object for open schedule windows.
type FreeGapDTO struct {
	Start       time.Time
	End         time.Time
	DurationMin int
}

// FindFreeGapsQuery contains the parameters for finding free gaps in a day.
type FindFreeGapsQuery struct {
	UserID      uuid.UUID
	Date        time.Time
	DayStart    time.Time
	DayEnd      time.Time
	MinDuration time.Duration
}

// FindFreeGapsHandler handles the FindFreeGapsQuery.
type FindFreeGapsHandler struct {
	scheduleRepo domain.ScheduleRepository
}

// NewFindFreeGapsHandler creates a new FindFreeGapsHandler.
func NewFindFreeGapsHandler(scheduleRepo domain.ScheduleRepository) *FindFreeGapsHandler {
	return &FindFreeGapsHandler{scheduleRepo: scheduleRepo}
}

// Handle executes the FindFreeGapsQuery.
func (h *FindFreeGapsHandler) Handle(ctx context.Context, query FindFreeGapsQuery) ([]FreeGapDTO, error) {
	schedule, err := h.scheduleRepo.FindByUserAndDate(ctx, query.UserID, query.Date)
	if err != nil {
		return nil, err
	}

	// Without a schedule the whole day is open
	if schedule == nil {
		duration := query.DayEnd.Sub(query.DayStart)
		if duration >= query.MinDuration {
			return []FreeGapDTO{{
				Start:       query.DayStart,
				End:         query.DayEnd,
				DurationMin: int(duration.Minutes()),
			}}, nil
		}
		return []FreeGapDTO{}, nil
	}

	gaps := schedule.FindFreeGaps(query.DayStart, query.DayEnd, query.MinDuration)

	dtos := make([]FreeGapDTO, len(gaps))
	for i, gap := range gaps {
		dtos[i] = FreeGapDTO{
			Start:       gap.Start,
			End:         gap.End,
			DurationMin: int(gap.Duration().Minutes()),
		}
	}

	return dtos, nil
}
