package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"schedulai/core/constants"
	"schedulai/core/errors"
	"schedulai/modules/chat/entity"
)

// rawIntent mirrors the JSON contract the prompt asks the LLM for.
type rawIntent struct {
	Action       string   `json:"action"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	StartRange   string   `json:"start_range"`
	EndRange     string   `json:"end_range"`
	Duration     int      `json:"duration"`
	Participants []string `json:"participants"`
	StartTime    string   `json:"start_time"`

	OriginalEvent *rawOriginalEvent `json:"original_event"`
	UpdatedFields *rawUpdatedFields `json:"updated_fields"`
}

type rawOriginalEvent struct {
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
}

type rawUpdatedFields struct {
	Title        *string  `json:"title"`
	StartTime    *string  `json:"start_time"`
	EndTime      *string  `json:"end_time"`
	Participants []string `json:"participants"`
}

// IntentDecoder turns a raw LLM text response into a typed Intent.
type IntentDecoder struct {
	location *time.Location
}

func NewIntentDecoder(location *time.Location) *IntentDecoder {
	return &IntentDecoder{location: location}
}

// Decode parses the LLM response, applying the documented defaults, and
// returns exactly one populated intent variant. Decode errors surface
// verbatim to the caller; an unknown action is never coerced to a default.
func (d *IntentDecoder) Decode(raw string) (*entity.Intent, *errors.AppError) {
	var parsed rawIntent
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		span := extractFirstJSON(raw)
		if span == "" {
			return nil, errors.New(errors.ErrNoJSONFound, "no valid JSON object in LLM response")
		}
		if err := json.Unmarshal([]byte(span), &parsed); err != nil {
			return nil, errors.NewAppError(errors.ErrNoJSONFound, "failed to parse JSON from LLM response", err)
		}
	}

	// Defaults match the assistant's prompt contract.
	if strings.TrimSpace(parsed.Title) == "" {
		parsed.Title = "Meeting"
	}
	if parsed.Participants == nil {
		parsed.Participants = []string{}
	}
	if strings.TrimSpace(parsed.Action) == "" {
		parsed.Action = "schedule"
	}
	parsed.StartRange = normalizeClockTime(firstNonEmpty(parsed.StartRange, constants.DefaultStartRange))
	parsed.EndRange = normalizeClockTime(firstNonEmpty(parsed.EndRange, constants.DefaultEndRange))

	switch strings.ToLower(parsed.Action) {
	case "create", "schedule":
		return d.decodeCreate(&parsed)
	case "check", "check_free_time":
		return d.decodeCheck(&parsed)
	case "delete":
		return d.decodeDelete(&parsed)
	case "delete_all":
		return d.decodeDeleteAll(&parsed)
	case "update":
		return d.decodeUpdate(&parsed)
	default:
		return nil, errors.New(errors.ErrUnknownAction, fmt.Sprintf("unexpected action: %s", parsed.Action))
	}
}

func (d *IntentDecoder) decodeCreate(parsed *rawIntent) (*entity.Intent, *errors.AppError) {
	duration := parsed.Duration
	if duration == 0 && parsed.StartRange != "" && parsed.EndRange != "" {
		start, errStart := time.Parse("15:04", parsed.StartRange)
		end, errEnd := time.Parse("15:04", parsed.EndRange)
		if errStart == nil && errEnd == nil {
			// May come out non-positive for inverted ranges; the executor
			// rejects that, not the decoder.
			duration = int(end.Sub(start).Minutes())
		}
	}

	return &entity.Intent{
		Action: entity.ActionCreate,
		Create: &entity.CreateIntent{
			Title:           parsed.Title,
			Date:            parsed.Date,
			StartRange:      parsed.StartRange,
			EndRange:        parsed.EndRange,
			DurationMinutes: duration,
			Participants:    parsed.Participants,
		},
	}, nil
}

func (d *IntentDecoder) decodeCheck(parsed *rawIntent) (*entity.Intent, *errors.AppError) {
	duration := parsed.Duration
	if duration == 0 {
		duration = constants.DefaultDurationMin
	}

	return &entity.Intent{
		Action: entity.ActionCheck,
		Check: &entity.CheckIntent{
			Date:            parsed.Date,
			StartRange:      parsed.StartRange,
			EndRange:        parsed.EndRange,
			DurationMinutes: duration,
		},
	}, nil
}

func (d *IntentDecoder) decodeDelete(parsed *rawIntent) (*entity.Intent, *errors.AppError) {
	startTime, appErr := d.parseDateTime(parsed.StartTime, "start_time")
	if appErr != nil {
		return nil, appErr
	}

	title := parsed.Title
	if title == "Meeting" {
		// The defaulted title must not constrain delete matching.
		title = ""
	}

	return &entity.Intent{
		Action: entity.ActionDelete,
		Delete: &entity.DeleteIntent{
			Title:     title,
			StartTime: startTime,
		},
	}, nil
}

func (d *IntentDecoder) decodeDeleteAll(parsed *rawIntent) (*entity.Intent, *errors.AppError) {
	if strings.TrimSpace(parsed.Date) == "" {
		return nil, errors.New(errors.ErrValidationFailed, "date is required to delete all events on a day")
	}

	return &entity.Intent{
		Action:    entity.ActionDeleteAll,
		DeleteAll: &entity.DeleteAllIntent{Date: parsed.Date},
	}, nil
}

func (d *IntentDecoder) decodeUpdate(parsed *rawIntent) (*entity.Intent, *errors.AppError) {
	if parsed.OriginalEvent == nil || parsed.UpdatedFields == nil {
		return nil, errors.New(errors.ErrValidationFailed,
			"updating a meeting needs both the original event and the updated fields")
	}

	originalStart, appErr := d.parseDateTime(parsed.OriginalEvent.StartTime, "original_event.start_time")
	if appErr != nil {
		return nil, appErr
	}

	intent := &entity.UpdateIntent{
		OriginalTitle:     parsed.OriginalEvent.Title,
		OriginalStartTime: originalStart,
		NewTitle:          parsed.UpdatedFields.Title,
		NewParticipants:   parsed.UpdatedFields.Participants,
	}

	if parsed.UpdatedFields.StartTime != nil {
		t, appErr := d.parseDateTime(*parsed.UpdatedFields.StartTime, "updated_fields.start_time")
		if appErr != nil {
			return nil, appErr
		}
		intent.NewStartTime = &t
	}
	if parsed.UpdatedFields.EndTime != nil {
		t, appErr := d.parseDateTime(*parsed.UpdatedFields.EndTime, "updated_fields.end_time")
		if appErr != nil {
			return nil, appErr
		}
		intent.NewEndTime = &t
	}

	return &entity.Intent{
		Action: entity.ActionUpdate,
		Update: intent,
	}, nil
}

// parseDateTime requires a full date-time (date and time separated by "T")
// and interprets zone-less values in the configured zone.
func (d *IntentDecoder) parseDateTime(value, field string) (time.Time, *errors.AppError) {
	value = strings.TrimSpace(value)
	if value == "" || !strings.Contains(value, "T") {
		return time.Time{}, errors.New(errors.ErrMalformedTimestamp,
			fmt.Sprintf("invalid %s format: %q", field, value))
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(d.location), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, d.location); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, d.location); err == nil {
		return t, nil
	}

	return time.Time{}, errors.New(errors.ErrMalformedTimestamp,
		fmt.Sprintf("failed to parse %s: %q", field, value))
}

// extractFirstJSON returns the first balanced {...} span of text, found by
// bracket-depth counting. Braces inside string literals are not understood —
// a documented limitation of this fallback; the strict parse above is always
// tried first.
func extractFirstJSON(text string) string {
	depth := 0
	start := -1
	for i, ch := range text {
		switch ch {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
