// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/wildlifemlxy/shb-survey-sub004/app/dto"
	businessflow "github.com/wildlifemlxy/shb-survey-sub004/business_flow"
)

// SurveyHandlerInterface defines the contract for survey handlers.
type SurveyHandlerInterface interface {
	List(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
	Update(c fiber.Ctx) error
}

// SurveyHandler handles survey listing, refresh, and edit requests.
type SurveyHandler struct {
	surveyFlow    businessflow.SurveyFlow
	ingestionFlow businessflow.IngestionFlow
	validator     *validator.Validate
}

// NewSurveyHandler creates a new survey handler.
func NewSurveyHandler(surveyFlow businessflow.SurveyFlow, ingestionFlow businessflow.IngestionFlow) *SurveyHandler {
	return &SurveyHandler{
		surveyFlow:    surveyFlow,
		ingestionFlow: ingestionFlow,
		validator:     validator.New(),
	}
}

func (h *SurveyHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SurveyHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns every stored survey grouped by category.
func (h *SurveyHandler) List(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	surveys, err := h.surveyFlow.ListSurveys(ctx)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list surveys", "SURVEY_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Surveys retrieved", dto.ListSurveysResponse{Surveys: surveys})
}

// Refresh triggers an immediate re-ingestion of the source spreadsheet.
func (h *SurveyHandler) Refresh(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContextWithTimeout(c, 2*time.Minute)
	defer cancel()

	counts, err := h.ingestionFlow.RunIngestion(ctx)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "FETCH_FAILED" {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Spreadsheet fetch failed", be.Code, be.Error())
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Ingestion failed", "INGESTION_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Ingestion completed", dto.IngestionResponse{Counts: counts})
}

// Update applies a partial edit to one survey record addressed by category
// and row index.
func (h *SurveyHandler) Update(c fiber.Ctx) error {
	category := c.Params("category")
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid survey index", "INVALID_INDEX", c.Params("index"))
	}

	var req dto.UpdateSurveyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	ctx, cancel := h.createRequestContext(c)
	defer cancel()

	updated, err := h.surveyFlow.UpdateSurvey(ctx, category, index, &req)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "INVALID_CATEGORY":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid survey category", be.Code, be.Error())
			case "VALIDATION_ERROR":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one field must be provided", be.Code, be.Error())
			case "SURVEY_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Survey not found", be.Code, be.Error())
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update survey", "SURVEY_UPDATE_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Survey updated", updated)
}

func (h *SurveyHandler) createRequestContext(c fiber.Ctx) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, 30*time.Second)
}

func (h *SurveyHandler) createRequestContextWithTimeout(c fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID")), cancel
}
