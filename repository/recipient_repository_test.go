package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

func TestFileRecipientRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipients.json")

	t.Run("MissingFileStartsEmpty", func(t *testing.T) {
		repo := NewFileRecipientRepository(path)
		require.NoError(t, repo.Load())
		assert.Empty(t, repo.All())
	})

	t.Run("ReplaceAllRoundTrip", func(t *testing.T) {
		repo := NewFileRecipientRepository(path)
		require.NoError(t, repo.Load())

		recipients := []models.RecipientGroup{
			{ID: "-1001", DisplayName: "Surveyors"},
			{ID: "-1002", DisplayName: "Coordinators"},
		}
		require.NoError(t, repo.ReplaceAll(recipients))

		reloaded := NewFileRecipientRepository(path)
		require.NoError(t, reloaded.Load())
		assert.Equal(t, recipients, reloaded.All())
	})

	t.Run("AllReturnsCopy", func(t *testing.T) {
		repo := NewFileRecipientRepository(path)
		require.NoError(t, repo.Load())
		require.NoError(t, repo.ReplaceAll([]models.RecipientGroup{{ID: "-1", DisplayName: "A"}}))

		got := repo.All()
		got[0].DisplayName = "mutated"
		assert.Equal(t, "A", repo.All()[0].DisplayName)
	})
}
