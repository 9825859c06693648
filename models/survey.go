package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SurveyCategory represents the grouping of a survey in the source sheet
type SurveyCategory string

const (
	CategoryWWFLed       SurveyCategory = "wwfLed"
	CategoryVolunteerLed SurveyCategory = "volunteerLed"
)

// String returns the string representation of the category
func (c SurveyCategory) String() string {
	return string(c)
}

// Valid checks if the category is valid
func (c SurveyCategory) Valid() bool {
	switch c {
	case CategoryWWFLed, CategoryVolunteerLed:
		return true
	default:
		return false
	}
}

// Categories lists all survey categories in their stable processing order
func Categories() []SurveyCategory {
	return []SurveyCategory{CategoryWWFLed, CategoryVolunteerLed}
}

// ParseCategory converts a path/query token into a SurveyCategory
func ParseCategory(s string) (SurveyCategory, error) {
	c := SurveyCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown survey category: %q", s)
	}
	return c, nil
}

// SurveyRecord is one scheduled field observation event extracted from the sheet.
// Date and Time keep the raw sheet text; they are parsed lazily wherever a
// comparison is needed because the raw strings are also what humans see.
type SurveyRecord struct {
	Date                    string   `json:"date"`
	Location                string   `json:"location"`
	MeetingPoint            string   `json:"meetingPoint"`
	MeetingPointDescription string   `json:"meetingPointDescription"`
	Time                    string   `json:"time"`
	Participants            []string `json:"participants"`
	ReminderSent            bool     `json:"reminderSent"`
}

// BlankSurveyRecord returns the empty placeholder row synthesized when the
// volunteer-led collection would otherwise be empty after ingestion.
func BlankSurveyRecord() SurveyRecord {
	return SurveyRecord{Participants: []string{}}
}

// IsEmpty reports whether the record carries no extracted content at all
func (r SurveyRecord) IsEmpty() bool {
	return r.Date == "" && r.Location == "" && r.Time == "" && len(r.Participants) == 0
}

// Key derives a stable identity for matching the same survey across ingestion
// runs, so a re-ingested record keeps its ReminderSent state.
func (r SurveyRecord) Key() string {
	return strings.ToLower(strings.TrimSpace(r.Date)) + "|" +
		strings.ToLower(strings.TrimSpace(r.Location)) + "|" +
		strings.ToLower(strings.TrimSpace(r.Time))
}

var monthsByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

var timeRangeRe = regexp.MustCompile(`(\d{4})hrs`)

// ParseSurveyDate parses the sheet's "<day> <MonthName> <year>" form, e.g.
// "12 April 2025". The month name match is case-insensitive.
func ParseSurveyDate(s string) (day int, month time.Month, year int, err error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("survey date %q: expected 3 tokens, got %d", s, len(fields))
	}
	day, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("survey date %q: bad day: %w", s, err)
	}
	month, ok := monthsByName[strings.ToLower(fields[1])]
	if !ok {
		return 0, 0, 0, fmt.Errorf("survey date %q: unknown month %q", s, fields[1])
	}
	year, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("survey date %q: bad year: %w", s, err)
	}
	return day, month, year, nil
}

// ParseEndOfTimeRange extracts the end of a "<HHMM>hrs - <HHMM>hrs" window.
// The last "NNNNhrs" match is taken as the end of the range.
func ParseEndOfTimeRange(s string) (hour, minute int, err error) {
	matches := timeRangeRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, 0, fmt.Errorf("survey time %q: no HHMMhrs token", s)
	}
	v, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, 0, fmt.Errorf("survey time %q: %w", s, err)
	}
	return v / 100, v % 100, nil
}

// EndInstant combines the record's date with the end of its time window into a
// local calendar instant. ok is false when either raw string fails to parse.
func (r SurveyRecord) EndInstant(loc *time.Location) (t time.Time, ok bool) {
	day, month, year, err := ParseSurveyDate(r.Date)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute, err := ParseEndOfTimeRange(r.Time)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc), true
}

// HasPassed reports whether the survey's end instant is strictly before now.
// Any parse failure is treated as not passed, so an unparsable date can never
// silently delete a survey.
func (r SurveyRecord) HasPassed(now time.Time, loc *time.Location) bool {
	end, ok := r.EndInstant(loc)
	if !ok {
		return false
	}
	return end.Before(now)
}

// OccursOn reports whether the record's date matches the given day on
// calendar-day granularity, ignoring time-of-day. False on parse failure.
func (r SurveyRecord) OccursOn(day time.Time) bool {
	d, m, y, err := ParseSurveyDate(r.Date)
	if err != nil {
		return false
	}
	return y == day.Year() && m == day.Month() && d == day.Day()
}
