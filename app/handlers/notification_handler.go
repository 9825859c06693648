// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/wildlifemlxy/shb-survey-sub004/app/dto"
	businessflow "github.com/wildlifemlxy/shb-survey-sub004/business_flow"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

// NotificationHandlerInterface defines the contract for notification handlers.
type NotificationHandlerInterface interface {
	SendNow(c fiber.Ctx) error
	ListRecipients(c fiber.Ctx) error
	ReplaceRecipients(c fiber.Ctx) error
}

// NotificationHandler handles ad-hoc broadcasts and recipient management.
type NotificationHandler struct {
	flow      businessflow.NotificationFlow
	validator *validator.Validate
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(flow businessflow.NotificationFlow) *NotificationHandler {
	return &NotificationHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *NotificationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *NotificationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendNow broadcasts an arbitrary message to every configured recipient and
// reports the per-recipient outcomes.
func (h *NotificationHandler) SendNow(c fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	ctx, cancel := h.createRequestContextWithTimeout(c, time.Minute)
	defer cancel()

	outcomes, err := h.flow.SendMessageNow(ctx, req.Text)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "VALIDATION_ERROR":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Message text is required", be.Code, be.Error())
			case "NO_RECIPIENTS":
				return h.ErrorResponse(c, fiber.StatusConflict, "No recipients configured", be.Code, be.Error())
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send message", "SEND_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Message dispatched", dto.SendMessageResponse{Outcomes: outcomes})
}

// ListRecipients returns the configured recipient list.
func (h *NotificationHandler) ListRecipients(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	recipients, err := h.flow.ListRecipients(ctx)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list recipients", "RECIPIENT_LIST_FAILED", nil)
	}
	out := make([]dto.RecipientDTO, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, dto.RecipientDTO{ID: r.ID, DisplayName: r.DisplayName})
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Recipients retrieved", out)
}

// ReplaceRecipients overwrites the configured recipient list.
func (h *NotificationHandler) ReplaceRecipients(c fiber.Ctx) error {
	var req dto.ReplaceRecipientsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	recipients := make([]models.RecipientGroup, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		recipients = append(recipients, models.RecipientGroup{ID: r.ID, DisplayName: r.DisplayName})
	}
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	if err := h.flow.ReplaceRecipients(ctx, recipients); err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to persist recipients", "RECIPIENTS_PERSIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Recipients replaced", len(recipients))
}

func (h *NotificationHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, 30*time.Second)
}

func (h *NotificationHandler) createRequestContextWithTimeout(c fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID")), cancel
}
