package dto

import "github.com/wildlifemlxy/shb-survey-sub004/models"

// ListSurveysResponse returns the current survey set keyed by category
type ListSurveysResponse struct {
	Surveys map[models.SurveyCategory][]models.SurveyRecord `json:"surveys"`
}

// UpdateSurveyRequest carries a partial edit of one survey record. Nil fields
// are left unchanged. ReminderSent is intentionally absent: the flag is owned
// by the reminder pipeline and only ever moves false to true.
type UpdateSurveyRequest struct {
	Date                    *string   `json:"date,omitempty" validate:"omitempty,max=64"`
	Location                *string   `json:"location,omitempty" validate:"omitempty,max=256"`
	MeetingPoint            *string   `json:"meetingPoint,omitempty" validate:"omitempty,max=512"`
	MeetingPointDescription *string   `json:"meetingPointDescription,omitempty" validate:"omitempty,max=512"`
	Time                    *string   `json:"time,omitempty" validate:"omitempty,max=64"`
	Participants            *[]string `json:"participants,omitempty" validate:"omitempty,dive,max=128"`
}

// IngestionResponse summarizes one ingestion run
type IngestionResponse struct {
	Counts map[models.SurveyCategory]int `json:"counts"`
}

// SendMessageRequest triggers an immediate broadcast to all recipients
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

// SendMessageResponse returns the per-recipient outcomes of a broadcast
type SendMessageResponse struct {
	Outcomes []models.NotificationOutcome `json:"outcomes"`
}

// ReplaceRecipientsRequest overwrites the configured recipient list
type ReplaceRecipientsRequest struct {
	Recipients []RecipientDTO `json:"recipients" validate:"required,dive"`
}

// RecipientDTO is one delivery target
type RecipientDTO struct {
	ID          string `json:"id" validate:"required,max=64"`
	DisplayName string `json:"displayName" validate:"max=128"`
}
