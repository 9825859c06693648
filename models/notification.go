package models

// NotificationPayload is a recipient-agnostic rendered message
type NotificationPayload struct {
	Text      string `json:"text"`
	ParseMode string `json:"parseMode,omitempty"`
}

// NotificationOutcome records the result of one delivery attempt to one
// recipient within a fan-out call
type NotificationOutcome struct {
	Recipient   RecipientGroup `json:"recipient"`
	Success     bool           `json:"success"`
	ErrorDetail string         `json:"errorDetail,omitempty"`
}
