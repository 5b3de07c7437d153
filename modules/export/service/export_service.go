package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"schedulai/core/errors"
	"schedulai/core/logger"
	"schedulai/core/utils"
	calendarService "schedulai/modules/calendar/service"
	"schedulai/modules/export/dto"
	"schedulai/modules/export/storage"
)

const (
	icsContentType = "text/calendar"
	downloadTTL    = 15 * time.Minute
)

// ExportServiceInterface renders a day's schedule as an ICS file.
type ExportServiceInterface interface {
	ExportDay(ctx context.Context, userID uuid.UUID, date string) (*dto.ExportResponse, *errors.AppError)
}

// ExportService builds ICS documents from the remote calendar and stores
// them for download.
type ExportService struct {
	calendar calendarService.CalendarServiceInterface
	store    storage.ObjectStore
}

func NewExportService(calendar calendarService.CalendarServiceInterface, store storage.ObjectStore) *ExportService {
	return &ExportService{calendar: calendar, store: store}
}

// ExportDay fetches the day's events, renders them as a VCALENDAR and
// uploads the result. The returned URL is presigned and short-lived.
func (service *ExportService) ExportDay(ctx context.Context, userID uuid.UUID, date string) (*dto.ExportResponse, *errors.AppError) {
	events, appErr := service.calendar.EventsForDay(ctx, userID, date)
	if appErr != nil {
		return nil, appErr
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//schedulai//calendar-export//EN")

	for i := range events {
		event := &events[i]

		icalEvent := ical.NewEvent()
		icalEvent.Props.SetText(ical.PropUID, fmt.Sprintf("schedulai-%s", event.ID))
		icalEvent.Props.SetText(ical.PropSummary, event.Title)
		icalEvent.Props.SetDateTime(ical.PropDateTimeStart, event.Start)
		icalEvent.Props.SetDateTime(ical.PropDateTimeEnd, event.End)
		icalEvent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
		for _, attendee := range event.Attendees {
			prop := ical.NewProp(ical.PropAttendee)
			prop.SetText("mailto:" + attendee)
			icalEvent.Props.Add(prop)
		}

		cal.Children = append(cal.Children, icalEvent.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		logger.Error("ExportService:ExportDay:Encode:Error", "error", err, "user_id", userID, "date", date)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to encode calendar export", err)
	}

	key := fmt.Sprintf("exports/%s/%s-%s.ics", userID, slug.Make(date), utils.GenerateID())
	if err := service.store.Put(ctx, key, icsContentType, buf.Bytes()); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store calendar export", err)
	}

	url, err := service.store.PresignGet(ctx, key, downloadTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to sign download URL", err)
	}

	logger.Info("ExportService:ExportDay:Exported",
		"user_id", userID, "date", date, "key", key, "events", len(events))

	return &dto.ExportResponse{
		Date:        date,
		ObjectKey:   key,
		DownloadURL: url,
		EventCount:  len(events),
	}, nil
}
