package provider

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"schedulai/modules/calendar/entity"
)

// Credential is the opaque handle for one user's calendar. It is supplied by
// the auth module and passed through unchanged to every provider call; the
// pipeline never reads a process-global token store.
type Credential struct {
	UserID        string
	CalendarEmail string
	Token         *oauth2.Token
}

// CalendarProvider is the boundary to the remote calendar service. The
// provider is the sole source of truth for events and the sole point of
// serialization: two concurrent calls can observe and claim the same free
// slot, a known gap of services without check-and-reserve semantics.
type CalendarProvider interface {
	ListEvents(ctx context.Context, cred *Credential, window entity.TimeInterval) ([]entity.RemoteEvent, error)
	QueryFreeBusy(ctx context.Context, cred *Credential, window entity.TimeInterval) ([]entity.TimeInterval, error)
	InsertEvent(ctx context.Context, cred *Credential, title string, start, end time.Time, attendees []string) (*entity.RemoteEvent, error)
	UpdateEvent(ctx context.Context, cred *Credential, event entity.RemoteEvent) (*entity.RemoteEvent, error)
	DeleteEvent(ctx context.Context, cred *Credential, eventID string) error
}
