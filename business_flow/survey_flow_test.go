package businessflow

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildlifemlxy/shb-survey-sub004/app/dto"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
	"github.com/wildlifemlxy/shb-survey-sub004/repository"
	"github.com/wildlifemlxy/shb-survey-sub004/utils"
)

func newSeededSurveyFlow(t *testing.T) SurveyFlow {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	repo := repository.NewFileSurveyRepository(filepath.Join(t.TempDir(), "surveys.json"), loc, nil)
	require.NoError(t, repo.Load())
	require.NoError(t, repo.ReplaceAll(models.CategoryWWFLed, []models.SurveyRecord{
		{Date: "12 April 2100", Location: "Hindhede", Time: "0730hrs - 0930hrs", Participants: []string{"Alice"}},
	}))
	return NewSurveyFlow(repo)
}

func TestSurveyFlowListSurveys(t *testing.T) {
	flow := newSeededSurveyFlow(t)

	surveys, err := flow.ListSurveys(context.Background())
	require.NoError(t, err)
	require.Len(t, surveys[models.CategoryWWFLed], 1)
	assert.Equal(t, "Hindhede", surveys[models.CategoryWWFLed][0].Location)
}

func TestSurveyFlowUpdateSurvey(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialEdit", func(t *testing.T) {
		flow := newSeededSurveyFlow(t)

		updated, err := flow.UpdateSurvey(ctx, "wwfLed", 0, &dto.UpdateSurveyRequest{
			Location:     utils.ToPtr("Dairy Farm"),
			Participants: utils.ToPtr([]string{"Alice", "Bob"}),
		})
		require.NoError(t, err)
		assert.Equal(t, "Dairy Farm", updated.Location)
		assert.Equal(t, []string{"Alice", "Bob"}, updated.Participants)
		// Untouched fields survive the edit.
		assert.Equal(t, "12 April 2100", updated.Date)
	})

	t.Run("InvalidCategory", func(t *testing.T) {
		flow := newSeededSurveyFlow(t)
		_, err := flow.UpdateSurvey(ctx, "unknown", 0, &dto.UpdateSurveyRequest{Location: utils.ToPtr("X")})
		require.Error(t, err)
		assert.True(t, IsInvalidCategory(err))
	})

	t.Run("NoFieldsProvided", func(t *testing.T) {
		flow := newSeededSurveyFlow(t)
		_, err := flow.UpdateSurvey(ctx, "wwfLed", 0, &dto.UpdateSurveyRequest{})
		require.Error(t, err)
		be, ok := err.(*BusinessError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", be.Code)
	})

	t.Run("IndexOutOfRange", func(t *testing.T) {
		flow := newSeededSurveyFlow(t)
		_, err := flow.UpdateSurvey(ctx, "wwfLed", 7, &dto.UpdateSurveyRequest{Location: utils.ToPtr("X")})
		require.Error(t, err)
		assert.True(t, IsSurveyNotFound(err))
	})
}
