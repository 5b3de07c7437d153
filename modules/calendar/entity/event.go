package entity

import "time"

// TimeInterval is a half-open [Start, End) range. Both bounds carry the
// configured zone; Start < End is assumed everywhere.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the interval length.
func (t TimeInterval) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Overlaps reports whether two half-open intervals intersect.
func (t TimeInterval) Overlaps(other TimeInterval) bool {
	return t.Start.Before(other.End) && t.End.After(other.Start)
}

// RemoteEvent is a transient read of a provider-side event. It is never
// cached across requests; staleness is bounded by one round trip.
type RemoteEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Attendees []string  `json:"attendees,omitempty"`
}
