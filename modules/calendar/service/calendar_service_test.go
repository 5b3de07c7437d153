package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"schedulai/core/errors"
	"schedulai/modules/calendar/dto"
	"schedulai/modules/calendar/entity"
	"schedulai/modules/calendar/provider"
)

type fakeProvider struct {
	listFn     func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error)
	freeBusyFn func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.TimeInterval, error)
	insertFn   func(ctx context.Context, cred *provider.Credential, title string, start, end time.Time, attendees []string) (*entity.RemoteEvent, error)
	updateFn   func(ctx context.Context, cred *provider.Credential, event entity.RemoteEvent) (*entity.RemoteEvent, error)
	deleteFn   func(ctx context.Context, cred *provider.Credential, eventID string) error
	deletedIDs []string
}

func (f *fakeProvider) ListEvents(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
	if f.listFn == nil {
		panic("ListEvents not configured")
	}
	return f.listFn(ctx, cred, window)
}

func (f *fakeProvider) QueryFreeBusy(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.TimeInterval, error) {
	if f.freeBusyFn == nil {
		panic("QueryFreeBusy not configured")
	}
	return f.freeBusyFn(ctx, cred, window)
}

func (f *fakeProvider) InsertEvent(ctx context.Context, cred *provider.Credential, title string, start, end time.Time, attendees []string) (*entity.RemoteEvent, error) {
	if f.insertFn == nil {
		panic("InsertEvent not configured")
	}
	return f.insertFn(ctx, cred, title, start, end, attendees)
}

func (f *fakeProvider) UpdateEvent(ctx context.Context, cred *provider.Credential, event entity.RemoteEvent) (*entity.RemoteEvent, error) {
	if f.updateFn == nil {
		panic("UpdateEvent not configured")
	}
	return f.updateFn(ctx, cred, event)
}

func (f *fakeProvider) DeleteEvent(ctx context.Context, cred *provider.Credential, eventID string) error {
	if f.deleteFn == nil {
		panic("DeleteEvent not configured")
	}
	f.deletedIDs = append(f.deletedIDs, eventID)
	return f.deleteFn(ctx, cred, eventID)
}

type fakeCredentials struct{}

func (fakeCredentials) CredentialForUser(ctx context.Context, userID uuid.UUID) (*provider.Credential, *errors.AppError) {
	return &provider.Credential{UserID: userID.String(), CalendarEmail: "user@example.com"}, nil
}

var testUserID = uuid.MustParse("5f0c1b2e-3d4a-4b5c-8d6e-7f8091a2b3c4")

func newTestCalendarService(p provider.CalendarProvider, now time.Time) *CalendarService {
	svc := NewCalendarService(p, fakeCredentials{}, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func day(hour, min int) time.Time {
	return time.Date(2025, 3, 20, hour, min, 0, 0, time.UTC)
}

func TestAllFreeSlots_UsesProviderBusyIntervals(t *testing.T) {
	p := &fakeProvider{
		freeBusyFn: func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.TimeInterval, error) {
			if !window.Start.Equal(day(9, 0)) || !window.End.Equal(day(12, 0)) {
				t.Errorf("window = %v-%v", window.Start, window.End)
			}
			return []entity.TimeInterval{{Start: day(9, 0), End: day(10, 0)}}, nil
		},
	}
	svc := newTestCalendarService(p, time.Date(2025, 3, 19, 8, 0, 0, 0, time.UTC))

	slots, appErr := svc.AllFreeSlots(context.Background(), testUserID, "2025-03-20", "09:00", "12:00", 60)
	if appErr != nil {
		t.Fatalf("AllFreeSlots error: %v", appErr)
	}
	if len(slots) != 2 || !slots[0].Start.Equal(day(10, 0)) {
		t.Fatalf("slots = %v", slots)
	}
}

func TestAllFreeSlots_InvalidDate(t *testing.T) {
	svc := newTestCalendarService(&fakeProvider{}, day(8, 0))

	_, appErr := svc.AllFreeSlots(context.Background(), testUserID, "20-03-2025", "09:00", "12:00", 60)
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("appErr = %v, want ErrInvalidInput", appErr)
	}
}

func TestDeleteFirstMatching_TimeMatch(t *testing.T) {
	start := day(15, 0)
	p := &fakeProvider{
		listFn: func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
			if window.Duration() != time.Hour {
				t.Errorf("search window = %v, want 1h", window.Duration())
			}
			return []entity.RemoteEvent{
				{ID: "e1", Title: "Dentist", Start: start.Add(4 * time.Minute), End: start.Add(time.Hour)},
			}, nil
		},
		deleteFn: func(ctx context.Context, cred *provider.Credential, eventID string) error { return nil },
	}
	svc := newTestCalendarService(p, day(8, 0))

	title, appErr := svc.DeleteFirstMatching(context.Background(), testUserID, start, "")
	if appErr != nil {
		t.Fatalf("DeleteFirstMatching error: %v", appErr)
	}
	if title != "Dentist" {
		t.Errorf("title = %q", title)
	}
	if len(p.deletedIDs) != 1 || p.deletedIDs[0] != "e1" {
		t.Errorf("deleted = %v", p.deletedIDs)
	}
}

func TestDeleteFirstMatching_TitleMatchOutsideTolerance(t *testing.T) {
	// Title matches even though the event starts 40 minutes off: delete
	// matching is an OR of title and time, unlike the resolver's AND.
	start := day(15, 0)
	p := &fakeProvider{
		listFn: func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
			return []entity.RemoteEvent{
				{ID: "e1", Title: "Team Standup", Start: start.Add(40 * time.Minute), End: start.Add(100 * time.Minute)},
			}, nil
		},
		deleteFn: func(ctx context.Context, cred *provider.Credential, eventID string) error { return nil },
	}
	svc := newTestCalendarService(p, day(8, 0))

	title, appErr := svc.DeleteFirstMatching(context.Background(), testUserID, start, "standup")
	if appErr != nil {
		t.Fatalf("DeleteFirstMatching error: %v", appErr)
	}
	if title != "Team Standup" {
		t.Errorf("title = %q", title)
	}
}

func TestDeleteFirstMatching_NoMatch(t *testing.T) {
	start := day(15, 0)
	p := &fakeProvider{
		listFn: func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
			return []entity.RemoteEvent{
				{ID: "e1", Title: "Lunch", Start: start.Add(30 * time.Minute), End: start.Add(time.Hour)},
			}, nil
		},
		deleteFn: func(ctx context.Context, cred *provider.Credential, eventID string) error { return nil },
	}
	svc := newTestCalendarService(p, day(8, 0))

	_, appErr := svc.DeleteFirstMatching(context.Background(), testUserID, start, "dentist")
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("appErr = %v, want ErrNotFound", appErr)
	}
	if len(p.deletedIDs) != 0 {
		t.Errorf("deleted = %v, want none", p.deletedIDs)
	}
}

func TestDeleteAllOnDate_PartialFailure(t *testing.T) {
	p := &fakeProvider{
		listFn: func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
			return []entity.RemoteEvent{
				{ID: "e1", Title: "One", Start: day(9, 0), End: day(10, 0)},
				{ID: "e2", Title: "Two", Start: day(11, 0), End: day(12, 0)},
				{ID: "e3", Title: "Three", Start: day(14, 0), End: day(15, 0)},
			}, nil
		},
		deleteFn: func(ctx context.Context, cred *provider.Credential, eventID string) error {
			if eventID == "e2" {
				return fmt.Errorf("backend unavailable")
			}
			return nil
		},
	}
	svc := newTestCalendarService(p, day(8, 0))

	result, appErr := svc.DeleteAllOnDate(context.Background(), testUserID, "2025-03-20")
	if appErr != nil {
		t.Fatalf("DeleteAllOnDate error: %v", appErr)
	}
	if result.TotalDeleted != 2 {
		t.Errorf("TotalDeleted = %d, want 2", result.TotalDeleted)
	}
	if len(result.DeletedEvents) != 2 || result.DeletedEvents[0] != "One" || result.DeletedEvents[1] != "Three" {
		t.Errorf("DeletedEvents = %v", result.DeletedEvents)
	}
	if len(result.FailedEvents) != 1 || result.FailedEvents[0] != "Two" {
		t.Errorf("FailedEvents = %v", result.FailedEvents)
	}
	// The failure on e2 must not stop e3 from being attempted.
	if len(p.deletedIDs) != 3 {
		t.Errorf("attempted deletes = %v, want all three", p.deletedIDs)
	}
}

func TestDeleteAllOnDate_EmptyDay(t *testing.T) {
	p := &fakeProvider{
		listFn: func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
			return nil, nil
		},
	}
	svc := newTestCalendarService(p, day(8, 0))

	result, appErr := svc.DeleteAllOnDate(context.Background(), testUserID, "2025-03-20")
	if appErr != nil {
		t.Fatalf("DeleteAllOnDate error: %v", appErr)
	}
	if result.TotalDeleted != 0 || len(result.DeletedEvents) != 0 || len(result.FailedEvents) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestFindEvent_WindowAroundTarget(t *testing.T) {
	target := day(15, 0)
	p := &fakeProvider{
		listFn: func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
			if !window.Start.Equal(target.Add(-3*time.Hour)) || !window.End.Equal(target.Add(3*time.Hour)) {
				t.Errorf("window = %v-%v, want target +/- 3h", window.Start, window.End)
			}
			return []entity.RemoteEvent{
				{ID: "e1", Title: "Planning", Start: target.Add(2 * time.Minute), End: target.Add(time.Hour)},
			}, nil
		},
	}
	svc := newTestCalendarService(p, day(8, 0))

	event, appErr := svc.FindEvent(context.Background(), testUserID, "planning", &target)
	if appErr != nil {
		t.Fatalf("FindEvent error: %v", appErr)
	}
	if event == nil || event.ID != "e1" {
		t.Fatalf("event = %v", event)
	}
}

func TestFindEvent_NoTargetScansCurrentDay(t *testing.T) {
	p := &fakeProvider{
		listFn: func(ctx context.Context, cred *provider.Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
			if !window.Start.Equal(day(0, 0)) || !window.End.Equal(day(0, 0).Add(24*time.Hour)) {
				t.Errorf("window = %v-%v, want full day", window.Start, window.End)
			}
			return nil, nil
		},
	}
	svc := newTestCalendarService(p, day(8, 0))

	event, appErr := svc.FindEvent(context.Background(), testUserID, "anything", nil)
	if appErr != nil {
		t.Fatalf("FindEvent error: %v", appErr)
	}
	if event != nil {
		t.Fatalf("event = %v, want nil", event)
	}
}

func TestUpdateEventFields_AppliesOnlyPresentFields(t *testing.T) {
	original := entity.RemoteEvent{
		ID:        "e1",
		Title:     "Standup",
		Start:     day(9, 0),
		End:       day(9, 30),
		Attendees: []string{"a@example.com"},
	}

	var pushed entity.RemoteEvent
	p := &fakeProvider{
		updateFn: func(ctx context.Context, cred *provider.Credential, event entity.RemoteEvent) (*entity.RemoteEvent, error) {
			pushed = event
			return &event, nil
		},
	}
	svc := newTestCalendarService(p, day(8, 0))

	newStart := day(10, 0)
	updated, appErr := svc.UpdateEventFields(context.Background(), testUserID, original, dto.UpdateFields{
		StartTime: &newStart,
	})
	if appErr != nil {
		t.Fatalf("UpdateEventFields error: %v", appErr)
	}
	if !pushed.Start.Equal(newStart) {
		t.Errorf("pushed start = %v, want %v", pushed.Start, newStart)
	}
	if pushed.Title != "Standup" {
		t.Errorf("title changed to %q", pushed.Title)
	}
	if !pushed.End.Equal(day(9, 30)) {
		t.Errorf("end changed to %v", pushed.End)
	}
	if len(updated.Attendees) != 1 {
		t.Errorf("attendees = %v", updated.Attendees)
	}
}

func TestCreateEvent_ProviderErrorWrapped(t *testing.T) {
	p := &fakeProvider{
		insertFn: func(ctx context.Context, cred *provider.Credential, title string, start, end time.Time, attendees []string) (*entity.RemoteEvent, error) {
			return nil, fmt.Errorf("quota exceeded")
		},
	}
	svc := newTestCalendarService(p, day(8, 0))

	_, appErr := svc.CreateEvent(context.Background(), testUserID, "Meeting", day(10, 0), day(11, 0), nil)
	if appErr == nil || appErr.Code != errors.ErrProviderCall {
		t.Fatalf("appErr = %v, want ErrProviderCall", appErr)
	}
}
