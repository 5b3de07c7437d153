package provider

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"schedulai/core/constants"
	"schedulai/core/errors"
	"schedulai/core/logger"
	"schedulai/modules/calendar/entity"
)

const primaryCalendarID = "primary"

// GoogleProvider implements CalendarProvider against the Google Calendar v3
// API. A service is built per call from the caller's credential so tokens
// refresh through the shared OAuth config.
type GoogleProvider struct {
	oauthConfig *oauth2.Config
	location    *time.Location
}

func NewGoogleProvider(oauthConfig *oauth2.Config, location *time.Location) *GoogleProvider {
	return &GoogleProvider{
		oauthConfig: oauthConfig,
		location:    location,
	}
}

func (g *GoogleProvider) service(ctx context.Context, cred *Credential) (*calendar.Service, error) {
	client := g.oauthConfig.Client(ctx, cred.Token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

func (g *GoogleProvider) ListEvents(ctx context.Context, cred *Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ProviderCallTimeout)
	defer cancel()

	svc, err := g.service(ctx, cred)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to reach calendar provider", err)
	}

	result, err := svc.Events.List(primaryCalendarID).
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		logger.Error("GoogleProvider:ListEvents:Error",
			"error", err,
			"user_id", cred.UserID,
			"window_start", window.Start,
			"window_end", window.End,
		)
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to list events", err)
	}

	events := make([]entity.RemoteEvent, 0, len(result.Items))
	for _, item := range result.Items {
		ev, ok := g.toRemoteEvent(item)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (g *GoogleProvider) QueryFreeBusy(ctx context.Context, cred *Credential, window entity.TimeInterval) ([]entity.TimeInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ProviderCallTimeout)
	defer cancel()

	svc, err := g.service(ctx, cred)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to reach calendar provider", err)
	}

	result, err := svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin:  window.Start.Format(time.RFC3339),
		TimeMax:  window.End.Format(time.RFC3339),
		TimeZone: g.location.String(),
		Items:    []*calendar.FreeBusyRequestItem{{Id: primaryCalendarID}},
	}).Context(ctx).Do()
	if err != nil {
		logger.Error("GoogleProvider:QueryFreeBusy:Error",
			"error", err,
			"user_id", cred.UserID,
			"window_start", window.Start,
			"window_end", window.End,
		)
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to query free/busy", err)
	}

	cal, ok := result.Calendars[primaryCalendarID]
	if !ok {
		return nil, nil
	}

	busy := make([]entity.TimeInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, errStart := g.parseInZone(period.Start)
		end, errEnd := g.parseInZone(period.End)
		if errStart != nil || errEnd != nil {
			logger.Warn("GoogleProvider:QueryFreeBusy:SkipUnparseablePeriod",
				"start", period.Start, "end", period.End)
			continue
		}
		busy = append(busy, entity.TimeInterval{Start: start, End: end})
	}
	return busy, nil
}

func (g *GoogleProvider) InsertEvent(ctx context.Context, cred *Credential, title string, start, end time.Time, attendees []string) (*entity.RemoteEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ProviderCallTimeout)
	defer cancel()

	svc, err := g.service(ctx, cred)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to reach calendar provider", err)
	}

	event := &calendar.Event{
		Summary: title,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: g.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: g.location.String(),
		},
		Attendees: toEventAttendees(attendees),
		Reminders: &calendar.EventReminders{UseDefault: true, ForceSendFields: []string{"UseDefault"}},
	}

	created, err := svc.Events.Insert(primaryCalendarID, event).Context(ctx).Do()
	if err != nil {
		logger.Error("GoogleProvider:InsertEvent:Error",
			"error", err,
			"user_id", cred.UserID,
			"title", title,
			"start", start,
		)
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to insert event", err)
	}

	ev, _ := g.toRemoteEvent(created)
	return &ev, nil
}

func (g *GoogleProvider) UpdateEvent(ctx context.Context, cred *Credential, event entity.RemoteEvent) (*entity.RemoteEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ProviderCallTimeout)
	defer cancel()

	svc, err := g.service(ctx, cred)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to reach calendar provider", err)
	}

	// Fetch the remote representation first so untouched fields survive.
	remote, err := svc.Events.Get(primaryCalendarID, event.ID).Context(ctx).Do()
	if err != nil {
		logger.Error("GoogleProvider:UpdateEvent:Get:Error", "error", err, "event_id", event.ID, "user_id", cred.UserID)
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to fetch event for update", err)
	}

	remote.Summary = event.Title
	remote.Start = &calendar.EventDateTime{
		DateTime: event.Start.Format(time.RFC3339),
		TimeZone: g.location.String(),
	}
	remote.End = &calendar.EventDateTime{
		DateTime: event.End.Format(time.RFC3339),
		TimeZone: g.location.String(),
	}
	if event.Attendees != nil {
		remote.Attendees = toEventAttendees(event.Attendees)
	}

	updated, err := svc.Events.Update(primaryCalendarID, event.ID, remote).Context(ctx).Do()
	if err != nil {
		logger.Error("GoogleProvider:UpdateEvent:Error", "error", err, "event_id", event.ID, "user_id", cred.UserID)
		return nil, errors.NewAppError(errors.ErrProviderCall, "failed to update event", err)
	}

	ev, _ := g.toRemoteEvent(updated)
	return &ev, nil
}

func (g *GoogleProvider) DeleteEvent(ctx context.Context, cred *Credential, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.ProviderCallTimeout)
	defer cancel()

	svc, err := g.service(ctx, cred)
	if err != nil {
		return errors.NewAppError(errors.ErrProviderCall, "failed to reach calendar provider", err)
	}

	if err := svc.Events.Delete(primaryCalendarID, eventID).Context(ctx).Do(); err != nil {
		logger.Error("GoogleProvider:DeleteEvent:Error", "error", err, "event_id", eventID, "user_id", cred.UserID)
		return errors.NewAppError(errors.ErrProviderCall, "failed to delete event", err)
	}
	return nil
}

// toRemoteEvent converts a Google event, skipping all-day entries that carry
// no dateTime.
func (g *GoogleProvider) toRemoteEvent(item *calendar.Event) (entity.RemoteEvent, bool) {
	if item == nil || item.Start == nil || item.Start.DateTime == "" {
		return entity.RemoteEvent{}, false
	}

	start, err := g.parseInZone(item.Start.DateTime)
	if err != nil {
		return entity.RemoteEvent{}, false
	}
	end := start
	if item.End != nil && item.End.DateTime != "" {
		if parsed, err := g.parseInZone(item.End.DateTime); err == nil {
			end = parsed
		}
	}

	title := item.Summary
	if title == "" {
		title = "Untitled"
	}

	var attendees []string
	for _, a := range item.Attendees {
		attendees = append(attendees, a.Email)
	}

	return entity.RemoteEvent{
		ID:        item.Id,
		Title:     title,
		Start:     start,
		End:       end,
		Attendees: attendees,
	}, true
}

// parseInZone parses an RFC3339 timestamp and rebases it into the configured
// zone so interval math never mixes zones.
func (g *GoogleProvider) parseInZone(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(g.location), nil
}

func toEventAttendees(emails []string) []*calendar.EventAttendee {
	if len(emails) == 0 {
		return nil
	}
	attendees := make([]*calendar.EventAttendee, len(emails))
	for i, email := range emails {
		attendees[i] = &calendar.EventAttendee{Email: email}
	}
	return attendees
}
