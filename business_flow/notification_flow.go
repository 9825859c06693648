package businessflow

import (
	"context"
	"strings"

	"github.com/wildlifemlxy/shb-survey-sub004/app/services"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
	"github.com/wildlifemlxy/shb-survey-sub004/repository"
)

// NotificationFlow provides ad-hoc broadcast and recipient management use
// cases for the HTTP layer.
type NotificationFlow interface {
	SendMessageNow(ctx context.Context, text string) ([]models.NotificationOutcome, error)
	ListRecipients(ctx context.Context) ([]models.RecipientGroup, error)
	ReplaceRecipients(ctx context.Context, recipients []models.RecipientGroup) error
}

type NotificationFlowImpl struct {
	recipients repository.RecipientRepository
	dispatcher *services.NotificationDispatcher
}

func NewNotificationFlow(recipients repository.RecipientRepository, dispatcher *services.NotificationDispatcher) NotificationFlow {
	return &NotificationFlowImpl{
		recipients: recipients,
		dispatcher: dispatcher,
	}
}

// SendMessageNow fans an arbitrary text message out to every configured
// recipient and returns the per-recipient outcomes.
func (f *NotificationFlowImpl) SendMessageNow(ctx context.Context, text string) ([]models.NotificationOutcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "message text is required", ErrEmptyMessage)
	}
	recipients := f.recipients.All()
	if len(recipients) == 0 {
		return nil, NewBusinessError("NO_RECIPIENTS", "no recipients configured", ErrNoRecipientsConfigured)
	}

	payload := models.NotificationPayload{Text: text}
	return f.dispatcher.Dispatch(ctx, payload, recipients), nil
}

func (f *NotificationFlowImpl) ListRecipients(ctx context.Context) ([]models.RecipientGroup, error) {
	return f.recipients.All(), nil
}

func (f *NotificationFlowImpl) ReplaceRecipients(ctx context.Context, recipients []models.RecipientGroup) error {
	if err := f.recipients.ReplaceAll(recipients); err != nil {
		return NewBusinessError("RECIPIENTS_PERSIST_FAILED", "failed to persist recipients", err)
	}
	return nil
}
