package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"schedulai/core/errors"
	"schedulai/core/logger"
	"schedulai/core/queue"
	calendarDto "schedulai/modules/calendar/dto"
	calendarService "schedulai/modules/calendar/service"
	"schedulai/modules/chat/dto"
	"schedulai/modules/chat/entity"
	"schedulai/modules/chat/repository"
)

// ChatServiceInterface runs the assistant pipeline for one user turn and
// manages the stored transcript.
type ChatServiceInterface interface {
	HandleMessage(ctx context.Context, userID uuid.UUID, message string) (any, *errors.AppError)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]entity.ChatLog, *errors.AppError)
	ClearHistory(ctx context.Context, userID uuid.UUID) *errors.AppError
}

// ChatService is the pipeline orchestrator: normalize the message, ask the
// LLM for an intent, decode it, and execute it against the calendar.
type ChatService struct {
	llm      LLMClient
	decoder  *IntentDecoder
	calendar calendarService.CalendarServiceInterface
	repo     repository.ChatLogRepositoryInterface
	queue    queue.IQueue
	location *time.Location

	now func() time.Time
}

func NewChatService(llm LLMClient, calendar calendarService.CalendarServiceInterface, repo repository.ChatLogRepositoryInterface, q queue.IQueue, location *time.Location) *ChatService {
	return &ChatService{
		llm:      llm,
		decoder:  NewIntentDecoder(location),
		calendar: calendar,
		repo:     repo,
		queue:    q,
		location: location,
		now:      time.Now,
	}
}

// HandleMessage runs one turn end to end. The returned payload is one of the
// dto response shapes; its type tells the controller (and the client) what
// happened. Decode errors surface as AppErrors, never as a guessed intent.
func (s *ChatService) HandleMessage(ctx context.Context, userID uuid.UUID, message string) (any, *errors.AppError) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New(errors.ErrValidationFailed, "message is required")
	}

	now := s.now().In(s.location)
	normalized := NormalizeDates(message, now)

	raw, err := s.llm.Complete(ctx, systemPrompt(now), fewShotExamples, normalized)
	if err != nil {
		logger.Error("ChatService:HandleMessage:Complete:Error", "error", err, "user_id", userID)
		return nil, asChatError(err)
	}

	intent, appErr := s.decoder.Decode(raw)
	if appErr != nil {
		logger.Warn("ChatService:HandleMessage:Decode:Failed",
			"code", appErr.Code, "user_id", userID, "response", raw)
		return nil, appErr
	}

	var payload any
	switch intent.Action {
	case entity.ActionCreate:
		payload, appErr = s.executeCreate(ctx, userID, intent.Create)
	case entity.ActionCheck:
		payload, appErr = s.executeCheck(ctx, userID, intent.Check, now)
	case entity.ActionDelete:
		payload, appErr = s.executeDelete(ctx, userID, intent.Delete)
	case entity.ActionDeleteAll:
		payload, appErr = s.executeDeleteAll(ctx, userID, intent.DeleteAll)
	case entity.ActionUpdate:
		payload, appErr = s.executeUpdate(ctx, userID, intent.Update)
	default:
		appErr = errors.New(errors.ErrUnknownAction, fmt.Sprintf("unexpected action: %s", intent.Action))
	}
	if appErr != nil {
		return nil, appErr
	}

	s.logTurn(ctx, userID, message, payload)
	return payload, nil
}

func (s *ChatService) History(ctx context.Context, userID uuid.UUID, limit int) ([]entity.ChatLog, *errors.AppError) {
	if limit <= 0 {
		limit = 50
	}
	logs, err := s.repo.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load chat history", err)
	}
	return logs, nil
}

func (s *ChatService) ClearHistory(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.ClearByUserID(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to clear chat history", err)
	}
	return nil
}

// executeCreate finds the earliest free slot in the requested window and
// books it.
func (s *ChatService) executeCreate(ctx context.Context, userID uuid.UUID, intent *entity.CreateIntent) (any, *errors.AppError) {
	if strings.TrimSpace(intent.Date) == "" {
		return nil, errors.New(errors.ErrValidationFailed, "a date is required to schedule an event")
	}
	if intent.DurationMinutes <= 0 {
		return nil, errors.New(errors.ErrValidationFailed,
			fmt.Sprintf("cannot schedule an event with a duration of %d minutes", intent.DurationMinutes))
	}

	title := resolveTitle(intent.Title, intent.Participants)

	slot, appErr := s.calendar.FindFreeSlot(ctx, userID, intent.Date, intent.StartRange, intent.EndRange, intent.DurationMinutes)
	if appErr != nil {
		return nil, appErr
	}
	if slot == nil {
		return nil, errors.New(errors.ErrNoSlotAvailable,
			fmt.Sprintf("no free slot of %d minutes between %s and %s on %s",
				intent.DurationMinutes, intent.StartRange, intent.EndRange, intent.Date))
	}

	created, appErr := s.calendar.CreateEvent(ctx, userID, title, slot.Start, slot.End, intent.Participants)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.EventCreatedResponse{
		EventCreated: true,
		Details:      calendarDto.ToEventDTO(created),
		EventData: dto.EventDataDTO{
			Title:        title,
			Date:         intent.Date,
			StartRange:   intent.StartRange,
			EndRange:     intent.EndRange,
			Duration:     intent.DurationMinutes,
			Participants: intent.Participants,
		},
	}, nil
}

// executeCheck lists the free slots in the requested window. For today's
// date a start range already in the past is moved up to the top of the next
// hour so the answer never offers slots that have gone by.
func (s *ChatService) executeCheck(ctx context.Context, userID uuid.UUID, intent *entity.CheckIntent, now time.Time) (any, *errors.AppError) {
	if strings.TrimSpace(intent.Date) == "" {
		return nil, errors.New(errors.ErrValidationFailed, "a date is required to check availability")
	}

	startRange := intent.StartRange
	if intent.Date == now.Format("2006-01-02") {
		if clock, err := time.Parse("15:04", startRange); err == nil {
			requested := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, s.location)
			if requested.Before(now) {
				if now.Hour() >= 23 {
					return &dto.FreeSlotsResponse{
						Message:   fmt.Sprintf("No free slots left today between %s and %s.", intent.StartRange, intent.EndRange),
						FreeSlots: []calendarDto.FreeSlotDTO{},
					}, nil
				}
				startRange = fmt.Sprintf("%02d:00", now.Hour()+1)
			}
		}
	}

	slots, appErr := s.calendar.AllFreeSlots(ctx, userID, intent.Date, startRange, intent.EndRange, intent.DurationMinutes)
	if appErr != nil {
		return nil, appErr
	}

	message := fmt.Sprintf("Here are the free slots on %s between %s and %s.", intent.Date, startRange, intent.EndRange)
	if len(slots) == 0 {
		message = fmt.Sprintf("No free slots on %s between %s and %s.", intent.Date, startRange, intent.EndRange)
	}

	return &dto.FreeSlotsResponse{
		Message:   message,
		FreeSlots: calendarDto.ToFreeSlotDTOs(slots),
	}, nil
}

func (s *ChatService) executeDelete(ctx context.Context, userID uuid.UUID, intent *entity.DeleteIntent) (any, *errors.AppError) {
	start := intent.StartTime.In(s.location)

	deletedTitle, appErr := s.calendar.DeleteFirstMatching(ctx, userID, start, intent.Title)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.EventDeletedResponse{
		EventDeleted: true,
		Message:      fmt.Sprintf("Deleted %q starting at %s.", deletedTitle, start.Format("2006-01-02 15:04")),
		EventData: dto.DeleteEchoDTO{
			Date:       start.Format("2006-01-02"),
			StartRange: start.Format("15:04"),
			EndRange:   start.Add(time.Hour).Format("15:04"),
			Title:      intent.Title,
			StartTime:  start.Format(time.RFC3339),
		},
	}, nil
}

func (s *ChatService) executeDeleteAll(ctx context.Context, userID uuid.UUID, intent *entity.DeleteAllIntent) (any, *errors.AppError) {
	result, appErr := s.calendar.DeleteAllOnDate(ctx, userID, intent.Date)
	if appErr != nil {
		return nil, appErr
	}

	message := fmt.Sprintf("Deleted %d event(s) on %s.", result.TotalDeleted, intent.Date)
	if len(result.FailedEvents) > 0 {
		message = fmt.Sprintf("Deleted %d event(s) on %s; %d could not be deleted.",
			result.TotalDeleted, intent.Date, len(result.FailedEvents))
	}

	return &dto.DeleteAllResponse{
		Message: message,
		Details: *result,
	}, nil
}

// executeUpdate locates the original event, then pushes only the changed
// fields. When a new start time arrives without a new end time the event's
// duration is preserved.
func (s *ChatService) executeUpdate(ctx context.Context, userID uuid.UUID, intent *entity.UpdateIntent) (any, *errors.AppError) {
	target := intent.OriginalStartTime.In(s.location)

	event, appErr := s.calendar.FindEvent(ctx, userID, intent.OriginalTitle, &target)
	if appErr != nil {
		return nil, appErr
	}
	if event == nil {
		return nil, errors.New(errors.ErrNotFound,
			fmt.Sprintf("no event found around %s to update", target.Format("2006-01-02 15:04")))
	}

	updates := calendarDto.UpdateFields{
		Title:        intent.NewTitle,
		StartTime:    intent.NewStartTime,
		EndTime:      intent.NewEndTime,
		Participants: intent.NewParticipants,
	}
	if intent.NewStartTime != nil && intent.NewEndTime == nil {
		shifted := intent.NewStartTime.Add(event.End.Sub(event.Start))
		updates.EndTime = &shifted
	}

	updated, appErr := s.calendar.UpdateEventFields(ctx, userID, *event, updates)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.EventUpdatedResponse{
		EventUpdated: true,
		Message:      fmt.Sprintf("Updated %q.", updated.Title),
		UpdatedEvent: calendarDto.ToEventDTO(updated),
	}, nil
}

// logTurn enqueues the transcript entry. Persistence is best effort and
// never fails the chat turn.
func (s *ChatService) logTurn(ctx context.Context, userID uuid.UUID, message string, payload any) {
	if s.queue == nil {
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("ChatService:LogTurn:Marshal:Error", "error", err, "user_id", userID)
		return
	}

	if err := s.queue.EnqueueChatLog(ctx, queue.ChatLogPayload{
		UserID:      userID,
		UserMessage: message,
		BotResponse: string(response),
	}); err != nil {
		logger.Error("ChatService:LogTurn:Enqueue:Error", "error", err, "user_id", userID)
	}
}

// resolveTitle replaces a placeholder title ("", "event" in any casing, or
// the decoder's default "Meeting") with something that names the
// participants, when we know them.
func resolveTitle(title string, participants []string) string {
	placeholder := title == "" || title == "Meeting" || strings.EqualFold(title, "event")
	if !placeholder {
		return title
	}
	if len(participants) > 0 {
		return "Meeting with " + strings.Join(participants, ", ")
	}
	if title == "Meeting" {
		return title
	}
	return "Scheduled Meeting"
}

func asChatError(err error) *errors.AppError {
	if ae, ok := err.(*errors.AppError); ok {
		return ae
	}
	return errors.NewAppError(errors.ErrInternalServer, "assistant is unavailable right now", err)
}
