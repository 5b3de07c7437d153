package service

import (
	"sort"
	"time"

	"schedulai/core/constants"
	"schedulai/core/errors"
	"schedulai/modules/calendar/entity"
)

// SlotFinder computes the free slots of a fixed duration inside a search
// window. Slots march forward from the effective window start in strides of
// the requested duration, so adjacent free slots never overlap and slot
// boundaries are duration multiples off the window start, not wall-clock
// aligned.
type SlotFinder struct {
	// RoundingMinutes is the grid the same-day window start is rounded up
	// to, default 15.
	RoundingMinutes int
}

// NewSlotFinder creates a slot finder with default settings
func NewSlotFinder() *SlotFinder {
	return &SlotFinder{
		RoundingMinutes: constants.SlotRoundingMinutes,
	}
}

// FreeSlots returns every free slot of durationMinutes inside window,
// earliest first. When the window is on today's date the effective start is
// advanced to the next quarter-hour boundary after now, never earlier than
// the requested start, so no slot is proposed in the past.
func (sf *SlotFinder) FreeSlots(
	busy []entity.TimeInterval,
	window entity.TimeInterval,
	durationMinutes int,
	now time.Time,
) ([]entity.TimeInterval, *errors.AppError) {

	if durationMinutes <= 0 {
		return nil, errors.New(errors.ErrInvalidInput, "duration must be a positive number of minutes")
	}

	duration := time.Duration(durationMinutes) * time.Minute
	merged := sf.mergeOverlapping(busy)

	start := window.Start
	if sameDate(window.Start, now) {
		rounded := sf.roundUp(now)
		if rounded.After(start) {
			start = rounded
		}
	}

	// A window emptied by the "now" adjustment is a valid empty result.
	slots := []entity.TimeInterval{}
	for cursor := start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(duration) {
		candidate := entity.TimeInterval{Start: cursor, End: cursor.Add(duration)}
		if !sf.overlapsAny(candidate, merged) {
			slots = append(slots, candidate)
		}
	}

	return slots, nil
}

// FirstFreeSlot returns the earliest free slot or nil when the window is
// fully booked.
func (sf *SlotFinder) FirstFreeSlot(
	busy []entity.TimeInterval,
	window entity.TimeInterval,
	durationMinutes int,
	now time.Time,
) (*entity.TimeInterval, *errors.AppError) {

	slots, err := sf.FreeSlots(busy, window, durationMinutes, now)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}
	return &slots[0], nil
}

// mergeOverlapping merges overlapping or adjacent busy intervals. Merging
// cannot change which candidates test busy, it only shrinks the list.
func (sf *SlotFinder) mergeOverlapping(intervals []entity.TimeInterval) []entity.TimeInterval {
	if len(intervals) == 0 {
		return intervals
	}

	sorted := make([]entity.TimeInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []entity.TimeInterval{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		last := &merged[len(merged)-1]
		current := sorted[i]

		if current.Start.Before(last.End) || current.Start.Equal(last.End) {
			if current.End.After(last.End) {
				last.End = current.End
			}
		} else {
			merged = append(merged, current)
		}
	}

	return merged
}

func (sf *SlotFinder) overlapsAny(candidate entity.TimeInterval, busy []entity.TimeInterval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// roundUp advances t to the next RoundingMinutes boundary, rolling the hour
// on overflow. The boundary is strictly ahead of t's minute, so 10:30 rounds
// to 10:45 and 10:00 to 10:15.
func (sf *SlotFinder) roundUp(t time.Time) time.Time {
	step := sf.RoundingMinutes
	if step <= 0 {
		step = constants.SlotRoundingMinutes
	}

	next := (t.Minute()/step + 1) * step
	base := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	return base.Add(time.Duration(next) * time.Minute)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
