package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	todayRe    = regexp.MustCompile(`(?i)\btoday\b`)
	tomorrowRe = regexp.MustCompile(`(?i)\btomorrow\b`)
	ordinalRe  = regexp.MustCompile(`(?i)\bon (?:the )?(\d{1,2})(st|nd|rd|th)?\b`)
	bareHourRe = regexp.MustCompile(`^\d{1,2}$`)
)

var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// NormalizeDates rewrites relative and informal date expressions in free
// text into absolute YYYY-MM-DD dates relative to now, so the LLM never has
// to do calendar arithmetic. Pure and best-effort: anything it cannot
// resolve is left untouched.
//
// "next <weekday>" deliberately lands 7-13 days out — "next Monday" is the
// Monday after the nearest one. That matches how the phrase is commonly
// meant and is kept as documented behavior.
func NormalizeDates(text string, now time.Time) string {
	text = todayRe.ReplaceAllString(text, now.Format("2006-01-02"))
	text = tomorrowRe.ReplaceAllString(text, now.AddDate(0, 0, 1).Format("2006-01-02"))

	text = normalizeOrdinalDay(text, now)

	for _, wd := range weekdays {
		nextRe := regexp.MustCompile(`(?i)\bnext ` + wd.name + `\b`)
		if nextRe.MatchString(text) {
			daysAhead := (int(wd.day)-int(now.Weekday())+7)%7 + 7
			date := now.AddDate(0, 0, daysAhead)
			text = nextRe.ReplaceAllString(text, date.Format("2006-01-02"))
			continue
		}

		onRe := regexp.MustCompile(`(?i)\bon ` + wd.name + `\b`)
		if onRe.MatchString(text) {
			daysAhead := (int(wd.day) - int(now.Weekday()) + 7) % 7
			if daysAhead == 0 {
				daysAhead = 7 // never "today"
			}
			date := now.AddDate(0, 0, daysAhead)
			text = onRe.ReplaceAllString(text, date.Format("2006-01-02"))
		}
	}

	return text
}

// normalizeOrdinalDay rewrites the first "on (the) Nth" as the next
// occurrence of day-of-month N on or after now, rolling into the next month
// (and year) when N already passed. Invalid calendar dates are skipped.
func normalizeOrdinalDay(text string, now time.Time) string {
	match := ordinalRe.FindStringSubmatch(text)
	if match == nil {
		return text
	}

	day, err := strconv.Atoi(match[1])
	if err != nil || day < 1 || day > 31 {
		return text
	}

	month := int(now.Month())
	year := now.Year()
	if day < now.Day() {
		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	// time.Date normalizes overflow (Feb 30 -> Mar 2); detect and skip.
	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if candidate.Day() != day || int(candidate.Month()) != month {
		return text
	}

	// Only the first ordinal mention is rewritten.
	loc := ordinalRe.FindStringIndex(text)
	replacement := fmt.Sprintf("on %s", candidate.Format("2006-01-02"))
	return text[:loc[0]] + replacement + text[loc[1]:]
}

// normalizeClockTime expands a bare hour like "3" into "03:00"; anything
// else passes through unchanged.
func normalizeClockTime(value string) string {
	if bareHourRe.MatchString(value) {
		hour, err := strconv.Atoi(value)
		if err == nil {
			return fmt.Sprintf("%02d:00", hour)
		}
	}
	return value
}

// firstNonEmpty is a small helper for defaulting string fields.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
