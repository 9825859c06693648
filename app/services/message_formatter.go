package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

const (
	// mapSearchURL is the template a meeting-point link is derived from when
	// the sheet provides none.
	mapSearchURL = "https://www.google.com/maps/search/?api=1&query="

	// referenceMaterialsURL is appended to every reminder.
	referenceMaterialsURL = "https://tinyurl.com/shb-survey-guide"

	// placeholderLocation marks a location that is not yet confirmed and must
	// not be turned into a map link.
	placeholderLocation = "tbc"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// MessageFormatter renders a survey record into a recipient-agnostic payload.
// Format is total: it never fails, whatever combination of fields is empty.
type MessageFormatter struct{}

func NewMessageFormatter() *MessageFormatter {
	return &MessageFormatter{}
}

// Format builds the reminder text with Telegram-HTML markup
func (f *MessageFormatter) Format(record models.SurveyRecord) models.NotificationPayload {
	var b strings.Builder

	b.WriteString("<b>Survey Reminder</b>\n\n")
	b.WriteString(fmt.Sprintf("Hi everyone, gentle reminder for the upcoming survey on <b>%s</b>.\n\n", escape(record.Date)))

	b.WriteString(fmt.Sprintf("Location: %s\n", escape(record.Location)))
	b.WriteString(fmt.Sprintf("Meeting point: %s\n", f.meetingPointLine(record)))
	b.WriteString(fmt.Sprintf("Time: %s\n", escape(record.Time)))

	if len(record.Participants) > 0 {
		b.WriteString("\nParticipants:\n")
		for i, name := range record.Participants {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, escape(name)))
		}
	}

	b.WriteString(fmt.Sprintf("\nReference materials: %s", referenceMaterialsURL))

	return models.NotificationPayload{
		Text:      b.String(),
		ParseMode: "HTML",
	}
}

// meetingPointLine derives the meeting-point fragment: a link synthesized from
// the location when the sheet gave no meeting point, otherwise the given value
// normalized to carry a scheme.
func (f *MessageFormatter) meetingPointLine(record models.SurveyRecord) string {
	label := strings.TrimSpace(record.MeetingPointDescription)
	if label == "" {
		label = strings.TrimSpace(record.Location)
	}

	link := MeetingPointLink(record)
	if link == "" {
		if label == "" {
			return escape(strings.TrimSpace(record.MeetingPoint))
		}
		return escape(label)
	}
	if label == "" {
		label = "map"
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, escape(link), escape(label))
}

// MeetingPointLink resolves the meeting-point URL for a record, or "" when no
// usable link can be derived.
func MeetingPointLink(record models.SurveyRecord) string {
	meetingPoint := strings.TrimSpace(record.MeetingPoint)
	if meetingPoint != "" {
		if strings.HasPrefix(meetingPoint, "http://") || strings.HasPrefix(meetingPoint, "https://") {
			return meetingPoint
		}
		return "https://" + meetingPoint
	}

	location := strings.TrimSpace(record.Location)
	if location == "" || strings.EqualFold(location, placeholderLocation) {
		return ""
	}
	return mapSearchURL + url.PathEscape(location)
}

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
