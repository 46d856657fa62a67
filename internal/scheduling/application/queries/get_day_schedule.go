package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ActivityDTO is a data transfer object for scheduled activities.
type ActivityDTO struct {
	ID          uuid.UUID
	PlaceID     uuid.UUID
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	DurationMin int
	Latitude    *float64
	Longitude   *float64
}

// DayScheduleDTO is a data transfer object for day schedules.
type DayScheduleDTO struct {
	ID                 uuid.UUID
	Date               time.Time
	Activities         []ActivityDTO
	TotalScheduledMins int
}

// GetDayScheduleQuery contains the parameters for getting a day schedule.
type GetDayScheduleQuery struct {
	UserID uuid.UUID
	Date   time.Time
}

// GetDayScheduleHandler handles the GetDayScheduleQuery.
type GetDayScheduleHandler struct {
	scheduleRepo domain.ScheduleRepository
}

// NewGetDayScheduleHandler creates a new GetDayScheduleHandler.
func NewGetDayScheduleHandler(scheduleRepo domain.ScheduleRepository) *GetDayScheduleHandler {
	return &GetDayScheduleHandler{scheduleRepo: scheduleRepo}
}

// Handle executes the GetDayScheduleQuery.
func (h *GetDayScheduleHandler) Handle(ctx context.Context, query GetDayScheduleQuery) (*DayScheduleDTO, error) {
	schedule, err := h.scheduleRepo.FindByUserAndDate(ctx, query.UserID, query.Date)
	if err != nil {
		return nil, err
	}

	if schedule == nil {
		// Return an empty schedule for the date
		return &DayScheduleDTO{
			Date:       domain.NormalizeDate(query.Date),
			Activities: []ActivityDTO{},
		}, nil
	}

	return toDayScheduleDTO(schedule), nil
}

func toDayScheduleDTO(schedule *domain.DaySchedule) *DayScheduleDTO {
	activities := make([]ActivityDTO, len(schedule.Activities()))
	totalMins := 0

	for i, a := range schedule.Activities() {
		dto := ActivityDTO{
			ID:          a.ID(),
			PlaceID:     a.PlaceID(),
			Title:       a.Title(),
			StartTime:   a.StartTime(),
			EndTime:     a.EndTime(),
			DurationMin: int(a.Duration().Minutes()),
		}
		if loc := a.Location(); loc != nil {
			dto.Latitude = &loc.Latitude
			dto.Longitude = &loc.Longitude
		}
		activities[i] = dto
		totalMins += dto.DurationMin
	}

	return &DayScheduleDTO{
		ID:                 schedule.ID(),
		Date:               schedule.Date(),
		Activities:         activities,
		TotalScheduledMins: totalMins,
	}
}
