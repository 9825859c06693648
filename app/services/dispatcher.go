package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

var dispatchOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_dispatch_outcomes_total",
		Help: "Delivery attempt outcomes per fan-out call, partitioned by status",
	},
	[]string{"status"},
)

// NotificationDispatcher fans one payload out to every configured recipient
// concurrently. One recipient's failure never affects its siblings, the call
// returns only once every attempt has completed, and outcomes come back in
// input order.
type NotificationDispatcher struct {
	sender      Sender
	sendTimeout time.Duration
	logger      *log.Logger
}

func NewNotificationDispatcher(sender Sender, sendTimeout time.Duration, logger *log.Logger) *NotificationDispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &NotificationDispatcher{
		sender:      sender,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// Dispatch sends the payload to all recipients and collects one outcome per
// recipient. There is no retry here; the caller decides whether to try again
// on a later tick.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, payload models.NotificationPayload, recipients []models.RecipientGroup) []models.NotificationOutcome {
	outcomes := make([]models.NotificationOutcome, len(recipients))
	if len(recipients) == 0 {
		return outcomes
	}

	correlationID := uuid.NewString()

	var wg sync.WaitGroup
	for i, recipient := range recipients {
		wg.Add(1)
		go func(i int, recipient models.RecipientGroup) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
			defer cancel()

			err := d.sender.SendMessage(sendCtx, recipient.ID, payload)
			if err != nil {
				outcomes[i] = models.NotificationOutcome{
					Recipient:   recipient,
					Success:     false,
					ErrorDetail: err.Error(),
				}
				dispatchOutcomesTotal.WithLabelValues("failure").Inc()
				d.logger.Printf("dispatch %s: send to %s (%s) failed: %v", correlationID, recipient.DisplayName, recipient.ID, err)
				return
			}
			outcomes[i] = models.NotificationOutcome{Recipient: recipient, Success: true}
			dispatchOutcomesTotal.WithLabelValues("success").Inc()
		}(i, recipient)
	}
	wg.Wait()

	return outcomes
}
