package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

func TestMeetingPointLink(t *testing.T) {
	t.Run("ExplicitMeetingPointKeepsScheme", func(t *testing.T) {
		rec := models.SurveyRecord{MeetingPoint: "https://maps.app.goo.gl/abc"}
		assert.Equal(t, "https://maps.app.goo.gl/abc", MeetingPointLink(rec))
	})

	t.Run("SchemelessMeetingPointNormalized", func(t *testing.T) {
		rec := models.SurveyRecord{MeetingPoint: "maps.app.goo.gl/abc"}
		assert.Equal(t, "https://maps.app.goo.gl/abc", MeetingPointLink(rec))
	})

	t.Run("DerivedFromLocation", func(t *testing.T) {
		rec := models.SurveyRecord{Location: "Central Park"}
		assert.Equal(t,
			"https://www.google.com/maps/search/?api=1&query=Central%20Park",
			MeetingPointLink(rec))
	})

	t.Run("EmptyLocationYieldsNoLink", func(t *testing.T) {
		assert.Equal(t, "", MeetingPointLink(models.SurveyRecord{}))
	})

	t.Run("PlaceholderLocationYieldsNoLink", func(t *testing.T) {
		assert.Equal(t, "", MeetingPointLink(models.SurveyRecord{Location: "TBC"}))
		assert.Equal(t, "", MeetingPointLink(models.SurveyRecord{Location: "tbc"}))
	})
}

func TestMessageFormatterFormat(t *testing.T) {
	formatter := NewMessageFormatter()

	t.Run("FullRecord", func(t *testing.T) {
		rec := models.SurveyRecord{
			Date:         "12 April 2025",
			Location:     "Hindhede",
			Time:         "0730hrs - 0930hrs",
			Participants: []string{"Alice", "Bob"},
		}
		payload := formatter.Format(rec)

		assert.Equal(t, "HTML", payload.ParseMode)
		assert.Contains(t, payload.Text, "<b>Survey Reminder</b>")
		assert.Contains(t, payload.Text, "<b>12 April 2025</b>")
		assert.Contains(t, payload.Text, "Location: Hindhede")
		assert.Contains(t, payload.Text, "Time: 0730hrs - 0930hrs")
		assert.Contains(t, payload.Text, "1. Alice")
		assert.Contains(t, payload.Text, "2. Bob")
		assert.Contains(t, payload.Text, "Reference materials: https://tinyurl.com/shb-survey-guide")
	})

	t.Run("DerivedMeetingPointLink", func(t *testing.T) {
		rec := models.SurveyRecord{Date: "12 April 2025", Location: "Central Park"}
		payload := formatter.Format(rec)
		assert.Contains(t, payload.Text,
			`<a href="https://www.google.com/maps/search/?api=1&amp;query=Central%20Park">Central Park</a>`)
	})

	t.Run("MeetingPointDescriptionUsedAsLabel", func(t *testing.T) {
		rec := models.SurveyRecord{
			Location:                "Hindhede",
			MeetingPoint:            "https://maps.app.goo.gl/abc",
			MeetingPointDescription: "Visitor centre entrance",
		}
		payload := formatter.Format(rec)
		assert.Contains(t, payload.Text,
			`<a href="https://maps.app.goo.gl/abc">Visitor centre entrance</a>`)
	})

	t.Run("HTMLEscaping", func(t *testing.T) {
		rec := models.SurveyRecord{
			Date:         `1 <May> 2025 & "later"`,
			Location:     "A<B",
			Participants: []string{"Eve <script>"},
		}
		payload := formatter.Format(rec)
		assert.Contains(t, payload.Text, "1 &lt;May&gt; 2025 &amp; &quot;later&quot;")
		assert.Contains(t, payload.Text, "Eve &lt;script&gt;")
		assert.NotContains(t, payload.Text, "<script>")
	})

	t.Run("TotalOnEmptyRecord", func(t *testing.T) {
		payload := formatter.Format(models.SurveyRecord{})
		assert.NotEmpty(t, payload.Text)
		assert.Contains(t, payload.Text, "<b>Survey Reminder</b>")
		assert.NotContains(t, payload.Text, "Participants:")
	})

	t.Run("NoParticipantsOmitsSection", func(t *testing.T) {
		rec := models.SurveyRecord{Date: "12 April 2025", Location: "Hindhede", Participants: []string{}}
		payload := formatter.Format(rec)
		assert.False(t, strings.Contains(payload.Text, "Participants:"))
	})
}
