package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/wayfarer/internal/shared/domain"
	"github.com/google/uuid"
)

// AggregateTypeDaySchedule identifies day schedule aggregates in the outbox.
const AggregateTypeDaySchedule = "DaySchedule"

// Routing keys for schedule events.
const (
	RoutingKeyActivityScheduled = "scheduling.activity.scheduled"
	RoutingKeyActivityMoved     = "scheduling.activity.moved"
	RoutingKeyActivityRemoved   = "scheduling.activity.removed"
)

// ActivityScheduledEvent is emitted when an activity is placed on a schedule.
type ActivityScheduledEvent struct {
	sharedDomain.BaseEvent
	ActivityID   uuid.UUID `json:"activity_id"`
	ScheduleID   uuid.UUID `json:"schedule_id"`
	UserID       uuid.UUID `json:"user_id"`
	PlaceID      uuid.UUID `json:"place_id"`
	Title        string    `json:"title"`
	ScheduleDate time.Time `json:"schedule_date"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

// NewActivityScheduledEvent creates an ActivityScheduledEvent.
func NewActivityScheduledEvent(activity *ScheduledActivity, scheduleDate time.Time) *ActivityScheduledEvent {
	return &ActivityScheduledEvent{
		BaseEvent:    sharedDomain.NewBaseEvent(activity.ScheduleID(), AggregateTypeDaySchedule, RoutingKeyActivityScheduled),
		ActivityID:   activity.ID(),
		ScheduleID:   activity.ScheduleID(),
		UserID:       activity.UserID(),
		PlaceID:      activity.PlaceID(),
		Title:        activity.Title(),
		ScheduleDate: scheduleDate,
		StartTime:    activity.StartTime(),
		EndTime:      activity.EndTime(),
	}
}

// ActivityMovedEvent is emitted when an activity changes its time window.
type ActivityMovedEvent struct {
	sharedDomain.BaseEvent
	ActivityID   uuid.UUID `json:"activity_id"`
	ScheduleID   uuid.UUID `json:"schedule_id"`
	UserID       uuid.UUID `json:"user_id"`
	ScheduleDate time.Time `json:"schedule_date"`
	OldStartTime time.Time `json:"old_start_time"`
	OldEndTime   time.Time `json:"old_end_time"`
	NewStartTime time.Time `json:"new_start_time"`
	NewEndTime   time.Time `json:"new_end_time"`
}

// NewActivityMovedEvent creates an ActivityMovedEvent.
func NewActivityMovedEvent(activity *ScheduledActivity, scheduleDate time.Time, oldStart, oldEnd time.Time) *ActivityMovedEvent {
	return &ActivityMovedEvent{
		BaseEvent:    sharedDomain.NewBaseEvent(activity.ScheduleID(), AggregateTypeDaySchedule, RoutingKeyActivityMoved),
		ActivityID:   activity.ID(),
		ScheduleID:   activity.ScheduleID(),
		UserID:       activity.UserID(),
		ScheduleDate: scheduleDate,
		OldStartTime: oldStart,
		OldEndTime:   oldEnd,
		NewStartTime: activity.StartTime(),
		NewEndTime:   activity.EndTime(),
	}
}

// ActivityRemovedEvent is emitted when an activity is taken off a schedule.
type ActivityRemovedEvent struct {
	sharedDomain.BaseEvent
	ActivityID   uuid.UUID `json:"activity_id"`
	ScheduleID   uuid.UUID `json:"schedule_id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	ScheduleDate time.Time `json:"schedule_date"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

// NewActivityRemovedEvent creates an ActivityRemovedEvent.
func NewActivityRemovedEvent(activity *ScheduledActivity, scheduleDate time.Time) *ActivityRemovedEvent {
	return &ActivityRemovedEvent{
		BaseEvent:    sharedDomain.NewBaseEvent(activity.ScheduleID(), AggregateTypeDaySchedule, RoutingKeyActivityRemoved),
		ActivityID:   activity.ID(),
		ScheduleID:   activity.ScheduleID(),
		UserID:       activity.UserID(),
		Title:        activity.Title(),
		ScheduleDate: scheduleDate,
		StartTime:    activity.StartTime(),
		EndTime:      activity.EndTime(),
	}
}
