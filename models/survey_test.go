package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyCategory(t *testing.T) {
	t.Run("Constants", func(t *testing.T) {
		assert.Equal(t, "wwfLed", CategoryWWFLed.String())
		assert.Equal(t, "volunteerLed", CategoryVolunteerLed.String())
	})

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, CategoryWWFLed.Valid())
		assert.True(t, CategoryVolunteerLed.Valid())
		assert.False(t, SurveyCategory("other").Valid())
		assert.False(t, SurveyCategory("").Valid())
	})

	t.Run("StableOrder", func(t *testing.T) {
		assert.Equal(t, []SurveyCategory{CategoryWWFLed, CategoryVolunteerLed}, Categories())
	})

	t.Run("ParseCategory", func(t *testing.T) {
		c, err := ParseCategory("wwfLed")
		require.NoError(t, err)
		assert.Equal(t, CategoryWWFLed, c)

		_, err = ParseCategory("WWFLED")
		assert.Error(t, err)
	})
}

func TestParseSurveyDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		day     int
		month   time.Month
		year    int
		wantErr bool
	}{
		{name: "plain", input: "12 April 2025", day: 12, month: time.April, year: 2025},
		{name: "lowercase month", input: "3 january 2026", day: 3, month: time.January, year: 2026},
		{name: "surrounding whitespace", input: "  7 December 2025  ", day: 7, month: time.December, year: 2025},
		{name: "too few tokens", input: "April 2025", wantErr: true},
		{name: "too many tokens", input: "Sat 12 April 2025", wantErr: true},
		{name: "unknown month", input: "12 Avril 2025", wantErr: true},
		{name: "non-numeric day", input: "twelve April 2025", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, month, year, err := ParseSurveyDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.day, day)
			assert.Equal(t, tt.month, month)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestParseEndOfTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{name: "range", input: "0730hrs - 0930hrs", hour: 9, minute: 30},
		{name: "single token", input: "0930hrs", hour: 9, minute: 30},
		{name: "afternoon", input: "1400hrs - 1730hrs", hour: 17, minute: 30},
		{name: "no token", input: "morning", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseEndOfTimeRange(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestSurveyRecordEndInstant(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)

	t.Run("Combined", func(t *testing.T) {
		rec := SurveyRecord{Date: "12 April 2025", Time: "0730hrs - 0930hrs"}
		end, ok := rec.EndInstant(loc)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, time.April, 12, 9, 30, 0, 0, loc), end)
	})

	t.Run("UnparsableDate", func(t *testing.T) {
		rec := SurveyRecord{Date: "TBC", Time: "0730hrs - 0930hrs"}
		_, ok := rec.EndInstant(loc)
		assert.False(t, ok)
	})

	t.Run("UnparsableTime", func(t *testing.T) {
		rec := SurveyRecord{Date: "12 April 2025", Time: "morning"}
		_, ok := rec.EndInstant(loc)
		assert.False(t, ok)
	})
}

func TestSurveyRecordHasPassed(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)

	rec := SurveyRecord{Date: "12 April 2025", Time: "0730hrs - 0930hrs"}

	t.Run("BeforeEnd", func(t *testing.T) {
		now := time.Date(2025, time.April, 12, 9, 0, 0, 0, loc)
		assert.False(t, rec.HasPassed(now, loc))
	})

	t.Run("AfterEnd", func(t *testing.T) {
		now := time.Date(2025, time.April, 12, 10, 0, 0, 0, loc)
		assert.True(t, rec.HasPassed(now, loc))
	})

	t.Run("ParseFailureFailsOpen", func(t *testing.T) {
		unparsable := SurveyRecord{Date: "TBC", Time: "TBC"}
		now := time.Date(2030, time.January, 1, 0, 0, 0, 0, loc)
		assert.False(t, unparsable.HasPassed(now, loc))
	})
}

func TestSurveyRecordOccursOn(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)

	rec := SurveyRecord{Date: "12 April 2025"}

	assert.True(t, rec.OccursOn(time.Date(2025, time.April, 12, 23, 59, 0, 0, loc)))
	assert.False(t, rec.OccursOn(time.Date(2025, time.April, 11, 0, 0, 0, 0, loc)))
	assert.False(t, SurveyRecord{Date: "TBC"}.OccursOn(time.Date(2025, time.April, 12, 0, 0, 0, 0, loc)))
}

func TestSurveyRecordKey(t *testing.T) {
	a := SurveyRecord{Date: "12 April 2025", Location: "Hindhede", Time: "0730hrs - 0930hrs"}
	b := SurveyRecord{Date: " 12 april 2025 ", Location: "HINDHEDE", Time: "0730HRS - 0930HRS", ReminderSent: true}
	c := SurveyRecord{Date: "13 April 2025", Location: "Hindhede", Time: "0730hrs - 0930hrs"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestSurveyRecordIsEmpty(t *testing.T) {
	assert.True(t, BlankSurveyRecord().IsEmpty())
	assert.False(t, SurveyRecord{Date: "12 April 2025"}.IsEmpty())
	assert.False(t, SurveyRecord{Participants: []string{"Alice"}}.IsEmpty())
	// A meeting point alone does not make a survey.
	assert.True(t, SurveyRecord{MeetingPoint: "maps.example.com"}.IsEmpty())
}
