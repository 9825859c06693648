package businessflow

import (
	"context"
	"fmt"

	"github.com/wildlifemlxy/shb-survey-sub004/app/dto"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
	"github.com/wildlifemlxy/shb-survey-sub004/repository"
)

// SurveyFlow provides read and edit use cases over the survey repository for
// the HTTP layer.
type SurveyFlow interface {
	ListSurveys(ctx context.Context) (map[models.SurveyCategory][]models.SurveyRecord, error)
	UpdateSurvey(ctx context.Context, category string, index int, req *dto.UpdateSurveyRequest) (models.SurveyRecord, error)
}

type SurveyFlowImpl struct {
	repo repository.SurveyRepository
}

func NewSurveyFlow(repo repository.SurveyRepository) SurveyFlow {
	return &SurveyFlowImpl{repo: repo}
}

func (f *SurveyFlowImpl) ListSurveys(ctx context.Context) (map[models.SurveyCategory][]models.SurveyRecord, error) {
	return f.repo.All(), nil
}

// UpdateSurvey applies the non-nil fields of the request to one record
func (f *SurveyFlowImpl) UpdateSurvey(ctx context.Context, category string, index int, req *dto.UpdateSurveyRequest) (models.SurveyRecord, error) {
	cat, err := models.ParseCategory(category)
	if err != nil {
		return models.SurveyRecord{}, NewBusinessError("INVALID_CATEGORY", "invalid survey category", ErrInvalidCategory)
	}

	if req == nil || (req.Date == nil && req.Location == nil && req.MeetingPoint == nil &&
		req.MeetingPointDescription == nil && req.Time == nil && req.Participants == nil) {
		return models.SurveyRecord{}, NewBusinessError("VALIDATION_ERROR", "at least one field must be provided", ErrSurveyUpdateRequired)
	}

	record, err := f.repo.Get(cat, index)
	if err != nil {
		return models.SurveyRecord{}, NewBusinessError("SURVEY_NOT_FOUND", fmt.Sprintf("survey %s/%d not found", cat, index), ErrSurveyNotFound)
	}

	if req.Date != nil {
		record.Date = *req.Date
	}
	if req.Location != nil {
		record.Location = *req.Location
	}
	if req.MeetingPoint != nil {
		record.MeetingPoint = *req.MeetingPoint
	}
	if req.MeetingPointDescription != nil {
		record.MeetingPointDescription = *req.MeetingPointDescription
	}
	if req.Time != nil {
		record.Time = *req.Time
	}
	if req.Participants != nil {
		record.Participants = *req.Participants
	}

	if err := f.repo.Update(cat, index, record); err != nil {
		return models.SurveyRecord{}, NewBusinessError("SURVEY_UPDATE_FAILED", "failed to update survey", err)
	}

	updated, err := f.repo.Get(cat, index)
	if err != nil {
		return models.SurveyRecord{}, NewBusinessError("SURVEY_NOT_FOUND", fmt.Sprintf("survey %s/%d not found", cat, index), ErrSurveyNotFound)
	}
	return updated, nil
}
