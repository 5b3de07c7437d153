package entity

import "time"

// Action is the closed set of things a chat turn can ask for. Dispatch is an
// exhaustive switch over this type; an action outside the set is a decode
// error, never a silently defaulted variant.
type Action string

const (
	ActionCreate    Action = "create"
	ActionCheck     Action = "check"
	ActionDelete    Action = "delete"
	ActionDeleteAll Action = "delete_all"
	ActionUpdate    Action = "update"
)

// Intent is the decoded, typed form of the LLM's answer. Exactly one variant
// field is non-nil, matching Action.
type Intent struct {
	Action    Action
	Create    *CreateIntent
	Check     *CheckIntent
	Delete    *DeleteIntent
	DeleteAll *DeleteAllIntent
	Update    *UpdateIntent
}

// CreateIntent schedules a new event inside a day window.
type CreateIntent struct {
	Title           string
	Date            string // YYYY-MM-DD
	StartRange      string // HH:MM
	EndRange        string // HH:MM
	DurationMinutes int
	Participants    []string
}

// CheckIntent asks for the free slots of a day window. No mutation.
type CheckIntent struct {
	Date            string
	StartRange      string
	EndRange        string
	DurationMinutes int
}

// DeleteIntent removes one event near a start time, optionally filtered by
// title.
type DeleteIntent struct {
	Title     string // optional
	StartTime time.Time
}

// DeleteAllIntent clears every event on a date.
type DeleteAllIntent struct {
	Date string
}

// UpdateIntent rewrites fields of an existing event. Original locates it;
// nil update fields stay untouched.
type UpdateIntent struct {
	OriginalTitle     string // optional
	OriginalStartTime time.Time
	NewTitle          *string
	NewStartTime      *time.Time
	NewEndTime        *time.Time
	NewParticipants   []string
}
