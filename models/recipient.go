package models

// RecipientGroup is an opaque delivery target for notifications. The ID is
// whatever the outbound transport needs to address the group (for Telegram, the
// chat id); the dispatcher itself never interprets it.
type RecipientGroup struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}
