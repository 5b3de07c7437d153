package dto

import (
	calendarDto "schedulai/modules/calendar/dto"
)

// ChatRequest is one user turn.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// The chat endpoint answers with exactly one of the shapes below; the shape
// itself tells the client what happened.

// EventCreatedResponse confirms a scheduled event.
type EventCreatedResponse struct {
	EventCreated bool                 `json:"event_created"`
	Details      calendarDto.EventDTO `json:"details"`
	EventData    EventDataDTO         `json:"event_data"`
}

// EventDataDTO echoes the validated intent fields back to the client.
type EventDataDTO struct {
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	StartRange   string   `json:"start_range"`
	EndRange     string   `json:"end_range"`
	Duration     int      `json:"duration"`
	Participants []string `json:"participants"`
}

// EventDeletedResponse confirms a single deletion.
type EventDeletedResponse struct {
	EventDeleted bool          `json:"event_deleted"`
	Message      string        `json:"message"`
	EventData    DeleteEchoDTO `json:"event_data"`
}

// DeleteEchoDTO echoes what the delete intent asked for.
type DeleteEchoDTO struct {
	Date       string `json:"date"`
	StartRange string `json:"start_range"`
	EndRange   string `json:"end_range"`
	Title      string `json:"title,omitempty"`
	StartTime  string `json:"start_time"`
}

// DeleteAllResponse summarizes clearing a day.
type DeleteAllResponse struct {
	Message string                      `json:"message"`
	Details calendarDto.DeleteAllResult `json:"details"`
}

// FreeSlotsResponse answers an availability check; informational only.
type FreeSlotsResponse struct {
	Message   string                    `json:"message"`
	FreeSlots []calendarDto.FreeSlotDTO `json:"free_slots"`
}

// EventUpdatedResponse confirms an update.
type EventUpdatedResponse struct {
	EventUpdated bool                 `json:"event_updated"`
	Message      string               `json:"message"`
	UpdatedEvent calendarDto.EventDTO `json:"updated_event"`
}

// ErrorResponse carries a user-visible failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
