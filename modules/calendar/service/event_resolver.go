package service

import (
	"strings"
	"time"

	"schedulai/core/constants"
	"schedulai/modules/calendar/entity"
)

// EventResolver locates the existing remote event a fuzzy description points
// at. It is a first-acceptable-match strategy, not a ranking: ties break by
// provider list order, which is start-time ascending for same-day queries.
type EventResolver struct {
	// ToleranceSeconds is the maximum |event.Start - target| for a time
	// match, default 300.
	ToleranceSeconds int
}

func NewEventResolver() *EventResolver {
	return &EventResolver{ToleranceSeconds: constants.EventMatchToleranceS}
}

// Resolve scans candidates (already fetched for a bounded search window) and
// returns the first acceptable match, or nil when nothing matches. A nil
// result is a normal outcome for the caller to surface, not an error.
func (r *EventResolver) Resolve(candidates []entity.RemoteEvent, title string, target *time.Time) *entity.RemoteEvent {
	title = strings.TrimSpace(title)

	for i := range candidates {
		event := &candidates[i]

		if target != nil {
			delta := event.Start.Sub(*target)
			if delta < 0 {
				delta = -delta
			}
			if delta > time.Duration(r.ToleranceSeconds)*time.Second {
				continue
			}
			if title != "" && !r.titleContains(event.Title, title) {
				continue
			}
			return event
		}

		if title != "" && r.titleContains(event.Title, title) {
			return event
		}
	}

	return nil
}

func (r *EventResolver) titleContains(eventTitle, query string) bool {
	return strings.Contains(
		strings.ToLower(strings.TrimSpace(eventTitle)),
		strings.ToLower(query),
	)
}
