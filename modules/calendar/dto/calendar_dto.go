package dto

import (
	"time"

	"schedulai/modules/calendar/entity"
)

// FreeSlotDTO is one proposed slot in a chat or availability response.
type FreeSlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// EventDTO is the wire shape of a remote event.
type EventDTO struct {
	ID        string   `json:"id"`
	Title     string   `json:"summary"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Attendees []string `json:"attendees,omitempty"`
}

// DayScheduleResponse lists a day's events.
type DayScheduleResponse struct {
	Date   string     `json:"date"`
	Events []EventDTO `json:"events"`
}

// DeleteAllResult reports the outcome of clearing a day. Partial failures
// are collected, never swallowed, and never abort the remaining deletions.
type DeleteAllResult struct {
	Date          string   `json:"date"`
	DeletedEvents []string `json:"deleted_events"`
	FailedEvents  []string `json:"failed_events,omitempty"`
	TotalDeleted  int      `json:"total_deleted"`
}

// UpdateFields carries the fields of an update intent that were present;
// absent fields leave the remote value untouched.
type UpdateFields struct {
	Title        *string
	StartTime    *time.Time
	EndTime      *time.Time
	Participants []string
}

// ToFreeSlotDTOs formats slots for a response.
func ToFreeSlotDTOs(slots []entity.TimeInterval) []FreeSlotDTO {
	out := make([]FreeSlotDTO, len(slots))
	for i, s := range slots {
		out[i] = FreeSlotDTO{
			Start: s.Start.Format(time.RFC3339),
			End:   s.End.Format(time.RFC3339),
		}
	}
	return out
}

// ToEventDTO formats a remote event for a response.
func ToEventDTO(e *entity.RemoteEvent) EventDTO {
	return EventDTO{
		ID:        e.ID,
		Title:     e.Title,
		Start:     e.Start.Format(time.RFC3339),
		End:       e.End.Format(time.RFC3339),
		Attendees: e.Attendees,
	}
}

// ToEventDTOs formats a list of remote events.
func ToEventDTOs(events []entity.RemoteEvent) []EventDTO {
	out := make([]EventDTO, len(events))
	for i := range events {
		out[i] = ToEventDTO(&events[i])
	}
	return out
}
