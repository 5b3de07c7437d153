package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"schedulai/core/constants"
	"schedulai/core/errors"
	"schedulai/core/logger"
	"schedulai/modules/calendar/dto"
	"schedulai/modules/calendar/entity"
	"schedulai/modules/calendar/provider"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// CredentialSource supplies the opaque calendar credential for a user. The
// auth module implements it; services never read a global token store.
type CredentialSource interface {
	CredentialForUser(ctx context.Context, userID uuid.UUID) (*provider.Credential, *errors.AppError)
}

// CalendarServiceInterface is the calendar side of the pipeline: slot
// search, event lookup and the five provider mutations, all bound to the
// caller's credential.
type CalendarServiceInterface interface {
	AllFreeSlots(ctx context.Context, userID uuid.UUID, date, startRange, endRange string, durationMinutes int) ([]entity.TimeInterval, *errors.AppError)
	FindFreeSlot(ctx context.Context, userID uuid.UUID, date, startRange, endRange string, durationMinutes int) (*entity.TimeInterval, *errors.AppError)
	CreateEvent(ctx context.Context, userID uuid.UUID, title string, start, end time.Time, attendees []string) (*entity.RemoteEvent, *errors.AppError)
	EventsForDay(ctx context.Context, userID uuid.UUID, date string) ([]entity.RemoteEvent, *errors.AppError)
	DeleteFirstMatching(ctx context.Context, userID uuid.UUID, startTime time.Time, title string) (string, *errors.AppError)
	DeleteAllOnDate(ctx context.Context, userID uuid.UUID, date string) (*dto.DeleteAllResult, *errors.AppError)
	FindEvent(ctx context.Context, userID uuid.UUID, title string, target *time.Time) (*entity.RemoteEvent, *errors.AppError)
	UpdateEventFields(ctx context.Context, userID uuid.UUID, event entity.RemoteEvent, updates dto.UpdateFields) (*entity.RemoteEvent, *errors.AppError)
	Location() *time.Location
}

// CalendarService wires the availability engine and event resolver to the
// remote provider.
type CalendarService struct {
	provider    provider.CalendarProvider
	credentials CredentialSource
	slotFinder  *SlotFinder
	resolver    *EventResolver
	location    *time.Location

	now func() time.Time
}

func NewCalendarService(p provider.CalendarProvider, creds CredentialSource, location *time.Location) *CalendarService {
	return &CalendarService{
		provider:    p,
		credentials: creds,
		slotFinder:  NewSlotFinder(),
		resolver:    NewEventResolver(),
		location:    location,
		now:         time.Now,
	}
}

func (s *CalendarService) Location() *time.Location {
	return s.location
}

// AllFreeSlots queries the provider's busy intervals for the requested
// window and returns every free slot of the requested duration.
func (s *CalendarService) AllFreeSlots(ctx context.Context, userID uuid.UUID, date, startRange, endRange string, durationMinutes int) ([]entity.TimeInterval, *errors.AppError) {
	window, appErr := s.rangeWindow(date, startRange, endRange)
	if appErr != nil {
		return nil, appErr
	}

	cred, appErr := s.credentials.CredentialForUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	busy, err := s.provider.QueryFreeBusy(ctx, cred, *window)
	if err != nil {
		return nil, asAppError(err)
	}

	return s.slotFinder.FreeSlots(busy, *window, durationMinutes, s.now().In(s.location))
}

// FindFreeSlot returns the earliest free slot or nil when none exists.
func (s *CalendarService) FindFreeSlot(ctx context.Context, userID uuid.UUID, date, startRange, endRange string, durationMinutes int) (*entity.TimeInterval, *errors.AppError) {
	slots, appErr := s.AllFreeSlots(ctx, userID, date, startRange, endRange, durationMinutes)
	if appErr != nil {
		return nil, appErr
	}
	if len(slots) == 0 {
		return nil, nil
	}
	return &slots[0], nil
}

func (s *CalendarService) CreateEvent(ctx context.Context, userID uuid.UUID, title string, start, end time.Time, attendees []string) (*entity.RemoteEvent, *errors.AppError) {
	cred, appErr := s.credentials.CredentialForUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	created, err := s.provider.InsertEvent(ctx, cred, title, start, end, attendees)
	if err != nil {
		return nil, asAppError(err)
	}

	logger.Info("CalendarService:CreateEvent:Created",
		"user_id", userID, "event_id", created.ID, "title", title, "start", start)
	return created, nil
}

// EventsForDay lists the day's events, local midnight to next midnight.
func (s *CalendarService) EventsForDay(ctx context.Context, userID uuid.UUID, date string) ([]entity.RemoteEvent, *errors.AppError) {
	window, appErr := s.dayWindow(date)
	if appErr != nil {
		return nil, appErr
	}

	cred, appErr := s.credentials.CredentialForUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	events, err := s.provider.ListEvents(ctx, cred, *window)
	if err != nil {
		return nil, asAppError(err)
	}
	return events, nil
}

// DeleteFirstMatching deletes the first event in [startTime, startTime+1h)
// that either contains title (case-insensitive) or starts within the match
// tolerance of startTime. The returned title identifies what was deleted; an
// ErrNotFound result means no candidate qualified.
func (s *CalendarService) DeleteFirstMatching(ctx context.Context, userID uuid.UUID, startTime time.Time, title string) (string, *errors.AppError) {
	cred, appErr := s.credentials.CredentialForUser(ctx, userID)
	if appErr != nil {
		return "", appErr
	}

	window := entity.TimeInterval{Start: startTime, End: startTime.Add(constants.DeleteSearchWindowDur)}
	events, err := s.provider.ListEvents(ctx, cred, window)
	if err != nil {
		return "", asAppError(err)
	}

	title = strings.TrimSpace(title)
	tolerance := time.Duration(s.resolver.ToleranceSeconds) * time.Second

	for i := range events {
		event := &events[i]
		delta := event.Start.Sub(startTime)
		if delta < 0 {
			delta = -delta
		}

		titleMatch := title != "" && s.resolver.titleContains(event.Title, title)
		if !titleMatch && delta > tolerance {
			continue
		}

		if err := s.provider.DeleteEvent(ctx, cred, event.ID); err != nil {
			return "", asAppError(err)
		}
		logger.Info("CalendarService:DeleteFirstMatching:Deleted",
			"user_id", userID, "event_id", event.ID, "title", event.Title)
		return event.Title, nil
	}

	return "", errors.New(errors.ErrNotFound, "no matching event found with that title or time")
}

// DeleteAllOnDate deletes every event on the given date. Per-event failures
// are collected and reported; they never abort the remaining deletions.
func (s *CalendarService) DeleteAllOnDate(ctx context.Context, userID uuid.UUID, date string) (*dto.DeleteAllResult, *errors.AppError) {
	events, appErr := s.EventsForDay(ctx, userID, date)
	if appErr != nil {
		return nil, appErr
	}

	cred, appErr := s.credentials.CredentialForUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	result := &dto.DeleteAllResult{
		Date:          date,
		DeletedEvents: []string{},
	}
	for i := range events {
		event := &events[i]
		if err := s.provider.DeleteEvent(ctx, cred, event.ID); err != nil {
			logger.Error("CalendarService:DeleteAllOnDate:DeleteEvent:Error",
				"error", err, "user_id", userID, "event_id", event.ID, "title", event.Title)
			result.FailedEvents = append(result.FailedEvents, event.Title)
			continue
		}
		result.DeletedEvents = append(result.DeletedEvents, event.Title)
	}
	result.TotalDeleted = len(result.DeletedEvents)

	return result, nil
}

// FindEvent fetches candidates for a bounded search window — three hours
// either side of target when given, else the full current day — and resolves
// the best match. A nil event with nil error means no match.
func (s *CalendarService) FindEvent(ctx context.Context, userID uuid.UUID, title string, target *time.Time) (*entity.RemoteEvent, *errors.AppError) {
	cred, appErr := s.credentials.CredentialForUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	var window entity.TimeInterval
	if target != nil {
		span := time.Duration(constants.ResolverSearchHours) * time.Hour
		window = entity.TimeInterval{Start: target.Add(-span), End: target.Add(span)}
	} else {
		now := s.now().In(s.location)
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
		window = entity.TimeInterval{Start: midnight, End: midnight.Add(24 * time.Hour)}
	}

	events, err := s.provider.ListEvents(ctx, cred, window)
	if err != nil {
		return nil, asAppError(err)
	}

	return s.resolver.Resolve(events, title, target), nil
}

// UpdateEventFields applies only the present update fields onto the event
// and pushes the result to the provider.
func (s *CalendarService) UpdateEventFields(ctx context.Context, userID uuid.UUID, event entity.RemoteEvent, updates dto.UpdateFields) (*entity.RemoteEvent, *errors.AppError) {
	cred, appErr := s.credentials.CredentialForUser(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	if updates.Title != nil {
		event.Title = *updates.Title
	}
	if updates.StartTime != nil {
		event.Start = updates.StartTime.In(s.location)
	}
	if updates.EndTime != nil {
		event.End = updates.EndTime.In(s.location)
	}
	if updates.Participants != nil {
		event.Attendees = updates.Participants
	}

	updated, err := s.provider.UpdateEvent(ctx, cred, event)
	if err != nil {
		return nil, asAppError(err)
	}

	logger.Info("CalendarService:UpdateEventFields:Updated",
		"user_id", userID, "event_id", updated.ID, "title", updated.Title)
	return updated, nil
}

// rangeWindow builds a same-zone window from a date and two clock ranges.
func (s *CalendarService) rangeWindow(date, startRange, endRange string) (*entity.TimeInterval, *errors.AppError) {
	day, err := time.ParseInLocation(dateLayout, date, s.location)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date), err)
	}

	start, err := clockOnDay(day, startRange, s.location)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("invalid start_range %q, expected HH:MM", startRange), err)
	}
	end, err := clockOnDay(day, endRange, s.location)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("invalid end_range %q, expected HH:MM", endRange), err)
	}

	return &entity.TimeInterval{Start: start, End: end}, nil
}

func (s *CalendarService) dayWindow(date string) (*entity.TimeInterval, *errors.AppError) {
	day, err := time.ParseInLocation(dateLayout, date, s.location)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date), err)
	}
	return &entity.TimeInterval{Start: day, End: day.Add(24 * time.Hour)}, nil
}

func clockOnDay(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(timeLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

func asAppError(err error) *errors.AppError {
	if ae, ok := err.(*errors.AppError); ok {
		return ae
	}
	return errors.NewAppError(errors.ErrProviderCall, "calendar provider call failed", err)
}
