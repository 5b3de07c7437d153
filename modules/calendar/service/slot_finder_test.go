package service

import (
	"testing"
	"time"

	"schedulai/core/errors"
	"schedulai/modules/calendar/entity"
)

func mustSlot(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2025, 3, 20, hour, min, 0, 0, time.UTC)
}

func window(t *testing.T, startHour, endHour int) entity.TimeInterval {
	t.Helper()
	return entity.TimeInterval{Start: mustSlot(t, startHour, 0), End: mustSlot(t, endHour, 0)}
}

// now on a different date so the same-day rounding never kicks in.
var otherDayNow = time.Date(2025, 3, 19, 12, 0, 0, 0, time.UTC)

func TestFreeSlots_EmptyCalendar(t *testing.T) {
	sf := NewSlotFinder()

	slots, appErr := sf.FreeSlots(nil, window(t, 9, 12), 60, otherDayNow)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	if len(slots) != 3 {
		t.Fatalf("len = %d, want 3", len(slots))
	}
	for i, s := range slots {
		wantStart := mustSlot(t, 9+i, 0)
		if !s.Start.Equal(wantStart) || !s.End.Equal(wantStart.Add(time.Hour)) {
			t.Errorf("slot %d = %v-%v, want start %v", i, s.Start, s.End, wantStart)
		}
	}
}

func TestFreeSlots_StridesByDuration(t *testing.T) {
	sf := NewSlotFinder()

	// 9:00-12:00 window, 90 minute slots: 9:00 and 10:30 fit, 12:00+90m does not.
	slots, appErr := sf.FreeSlots(nil, window(t, 9, 12), 90, otherDayNow)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	if len(slots) != 2 {
		t.Fatalf("len = %d, want 2", len(slots))
	}
	if !slots[1].Start.Equal(mustSlot(t, 10, 30)) {
		t.Errorf("second slot start = %v, want 10:30", slots[1].Start)
	}
}

func TestFreeSlots_SkipsBusyOverlap(t *testing.T) {
	sf := NewSlotFinder()

	busy := []entity.TimeInterval{
		{Start: mustSlot(t, 9, 30), End: mustSlot(t, 10, 30)},
	}
	slots, appErr := sf.FreeSlots(busy, window(t, 9, 13), 60, otherDayNow)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	// Candidates 9:00, 10:00 both overlap the busy block; 11:00 and 12:00 are free.
	if len(slots) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(slots), slots)
	}
	if !slots[0].Start.Equal(mustSlot(t, 11, 0)) {
		t.Errorf("first free = %v, want 11:00", slots[0].Start)
	}
}

func TestFreeSlots_HalfOpenBoundaries(t *testing.T) {
	sf := NewSlotFinder()

	// Busy 10:00-11:00. A 9:00-10:00 candidate touches at 10:00 and is free;
	// same for 11:00-12:00.
	busy := []entity.TimeInterval{
		{Start: mustSlot(t, 10, 0), End: mustSlot(t, 11, 0)},
	}
	slots, appErr := sf.FreeSlots(busy, window(t, 9, 12), 60, otherDayNow)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	if len(slots) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(slots), slots)
	}
	if !slots[0].Start.Equal(mustSlot(t, 9, 0)) || !slots[1].Start.Equal(mustSlot(t, 11, 0)) {
		t.Errorf("slots = %v", slots)
	}
}

func TestFreeSlots_MergesOverlappingBusy(t *testing.T) {
	sf := NewSlotFinder()

	busy := []entity.TimeInterval{
		{Start: mustSlot(t, 10, 0), End: mustSlot(t, 11, 0)},
		{Start: mustSlot(t, 10, 30), End: mustSlot(t, 11, 30)},
		{Start: mustSlot(t, 9, 0), End: mustSlot(t, 9, 30)},
	}
	slots, appErr := sf.FreeSlots(busy, window(t, 9, 13), 60, otherDayNow)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	// Only 12:00-13:00 dodges everything.
	if len(slots) != 1 || !slots[0].Start.Equal(mustSlot(t, 12, 0)) {
		t.Fatalf("slots = %v, want single 12:00", slots)
	}
}

func TestFreeSlots_SameDayRoundsUpFromNow(t *testing.T) {
	sf := NewSlotFinder()

	// now 10:30 on the window's date rounds strictly up to 10:45.
	now := mustSlot(t, 10, 30)
	slots, appErr := sf.FreeSlots(nil, window(t, 9, 13), 60, now)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	if len(slots) == 0 {
		t.Fatal("no slots")
	}
	if !slots[0].Start.Equal(mustSlot(t, 10, 45)) {
		t.Errorf("first slot = %v, want 10:45", slots[0].Start)
	}
}

func TestFreeSlots_RoundUpIsStrictOnBoundary(t *testing.T) {
	sf := NewSlotFinder()

	// Exactly on a boundary still advances: 10:00 -> 10:15.
	now := mustSlot(t, 10, 0)
	slots, appErr := sf.FreeSlots(nil, window(t, 9, 13), 60, now)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	if !slots[0].Start.Equal(mustSlot(t, 10, 15)) {
		t.Errorf("first slot = %v, want 10:15", slots[0].Start)
	}
}

func TestFreeSlots_NowBeforeWindowKeepsRequestedStart(t *testing.T) {
	sf := NewSlotFinder()

	// now is same-day but before the window; the start never moves earlier.
	now := mustSlot(t, 7, 10)
	slots, appErr := sf.FreeSlots(nil, window(t, 9, 11), 60, now)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	if !slots[0].Start.Equal(mustSlot(t, 9, 0)) {
		t.Errorf("first slot = %v, want 9:00", slots[0].Start)
	}
}

func TestFreeSlots_WindowEmptiedByNowIsEmptyResult(t *testing.T) {
	sf := NewSlotFinder()

	now := mustSlot(t, 12, 50)
	slots, appErr := sf.FreeSlots(nil, window(t, 9, 13), 60, now)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	if len(slots) != 0 {
		t.Fatalf("slots = %v, want none", slots)
	}
}

func TestFreeSlots_InvalidDuration(t *testing.T) {
	sf := NewSlotFinder()

	for _, dur := range []int{0, -30} {
		_, appErr := sf.FreeSlots(nil, window(t, 9, 12), dur, otherDayNow)
		if appErr == nil {
			t.Fatalf("duration %d: expected error", dur)
		}
		if appErr.Code != errors.ErrInvalidInput {
			t.Fatalf("duration %d: code = %q, want %q", dur, appErr.Code, errors.ErrInvalidInput)
		}
	}
}

func TestFreeSlots_HourRolloverOnRoundUp(t *testing.T) {
	sf := NewSlotFinder()

	// 10:50 rounds to 11:00 across the hour boundary.
	now := mustSlot(t, 10, 50)
	slots, appErr := sf.FreeSlots(nil, window(t, 9, 13), 60, now)
	if appErr != nil {
		t.Fatalf("FreeSlots error: %v", appErr)
	}
	if !slots[0].Start.Equal(mustSlot(t, 11, 0)) {
		t.Errorf("first slot = %v, want 11:00", slots[0].Start)
	}
}

func TestFirstFreeSlot(t *testing.T) {
	sf := NewSlotFinder()

	busy := []entity.TimeInterval{{Start: mustSlot(t, 9, 0), End: mustSlot(t, 10, 0)}}
	slot, appErr := sf.FirstFreeSlot(busy, window(t, 9, 12), 60, otherDayNow)
	if appErr != nil {
		t.Fatalf("FirstFreeSlot error: %v", appErr)
	}
	if slot == nil || !slot.Start.Equal(mustSlot(t, 10, 0)) {
		t.Fatalf("slot = %v, want 10:00", slot)
	}

	// Fully booked window returns nil without error.
	allBusy := []entity.TimeInterval{{Start: mustSlot(t, 9, 0), End: mustSlot(t, 12, 0)}}
	slot, appErr = sf.FirstFreeSlot(allBusy, window(t, 9, 12), 60, otherDayNow)
	if appErr != nil {
		t.Fatalf("FirstFreeSlot error: %v", appErr)
	}
	if slot != nil {
		t.Fatalf("slot = %v, want nil", slot)
	}
}
