package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	businessflow "github.com/wildlifemlxy/shb-survey-sub004/business_flow"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

type stubNotificationFlow struct {
	outcomes   []models.NotificationOutcome
	sendErr    error
	recipients []models.RecipientGroup
	replaced   []models.RecipientGroup
}

func (s *stubNotificationFlow) SendMessageNow(ctx context.Context, text string) ([]models.NotificationOutcome, error) {
	return s.outcomes, s.sendErr
}

func (s *stubNotificationFlow) ListRecipients(ctx context.Context) ([]models.RecipientGroup, error) {
	return s.recipients, nil
}

func (s *stubNotificationFlow) ReplaceRecipients(ctx context.Context, recipients []models.RecipientGroup) error {
	s.replaced = recipients
	return nil
}

func newNotificationTestApp(flow businessflow.NotificationFlow) *fiber.App {
	h := NewNotificationHandler(flow)
	app := fiber.New()
	app.Post("/api/v1/notifications/send", h.SendNow)
	app.Get("/api/v1/recipients", h.ListRecipients)
	app.Put("/api/v1/recipients", h.ReplaceRecipients)
	return app
}

func TestNotificationHandlerSendNow(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		flow := &stubNotificationFlow{outcomes: []models.NotificationOutcome{
			{Recipient: models.RecipientGroup{ID: "-100"}, Success: true},
		}}
		app := newNotificationTestApp(flow)

		req := httptest.NewRequest("POST", "/api/v1/notifications/send",
			strings.NewReader(`{"text":"survey moved to 0800hrs"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("MissingText", func(t *testing.T) {
		app := newNotificationTestApp(&stubNotificationFlow{})

		req := httptest.NewRequest("POST", "/api/v1/notifications/send", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("NoRecipients", func(t *testing.T) {
		flow := &stubNotificationFlow{
			sendErr: businessflow.NewBusinessError("NO_RECIPIENTS", "no recipients configured", businessflow.ErrNoRecipientsConfigured),
		}
		app := newNotificationTestApp(flow)

		req := httptest.NewRequest("POST", "/api/v1/notifications/send",
			strings.NewReader(`{"text":"hello"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestNotificationHandlerRecipients(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		flow := &stubNotificationFlow{recipients: []models.RecipientGroup{
			{ID: "-100", DisplayName: "Group A"},
		}}
		app := newNotificationTestApp(flow)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/recipients", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Replace", func(t *testing.T) {
		flow := &stubNotificationFlow{}
		app := newNotificationTestApp(flow)

		req := httptest.NewRequest("PUT", "/api/v1/recipients",
			strings.NewReader(`{"recipients":[{"id":"-300","displayName":"Group C"}]}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Len(t, flow.replaced, 1)
		assert.Equal(t, "-300", flow.replaced[0].ID)
	})

	t.Run("ReplaceRejectsRecipientWithoutID", func(t *testing.T) {
		app := newNotificationTestApp(&stubNotificationFlow{})

		req := httptest.NewRequest("PUT", "/api/v1/recipients",
			strings.NewReader(`{"recipients":[{"displayName":"No ID"}]}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
