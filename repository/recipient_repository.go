package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

// RecipientRepository holds the configured notification recipients. The list is
// editable independently of the survey pipeline; the dispatcher consumes it as-is.
type RecipientRepository interface {
	Load() error
	All() []models.RecipientGroup
	ReplaceAll(recipients []models.RecipientGroup) error
}

// FileRecipientRepository persists recipients as a JSON array on disk
type FileRecipientRepository struct {
	mu   sync.Mutex
	path string

	recipients []models.RecipientGroup
}

func NewFileRecipientRepository(path string) *FileRecipientRepository {
	return &FileRecipientRepository{
		path:       path,
		recipients: []models.RecipientGroup{},
	}
}

// Load reads the recipient list from disk. A missing file leaves the list empty.
func (r *FileRecipientRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.recipients = []models.RecipientGroup{}
			return nil
		}
		return fmt.Errorf("failed to read recipient store %s: %w", r.path, err)
	}

	var recipients []models.RecipientGroup
	if err := json.Unmarshal(data, &recipients); err != nil {
		return fmt.Errorf("failed to decode recipient store %s: %w", r.path, err)
	}
	r.recipients = recipients
	return nil
}

// All returns a copy of the configured recipients in stored order
func (r *FileRecipientRepository) All() []models.RecipientGroup {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.RecipientGroup, len(r.recipients))
	copy(out, r.recipients)
	return out
}

// ReplaceAll overwrites the recipient list in memory and on disk
func (r *FileRecipientRepository) ReplaceAll(recipients []models.RecipientGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recipients = make([]models.RecipientGroup, len(recipients))
	copy(r.recipients, recipients)

	data, err := json.MarshalIndent(r.recipients, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recipient store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".recipients-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp store file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace recipient store %s: %w", r.path, err)
	}
	return nil
}
