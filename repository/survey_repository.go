// Package repository provides data access layer implementations and interfaces for the persisted survey store
package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

// SurveyRepository owns the authoritative in-memory survey set and its durable
// JSON store. All mutation is serialized through one instance; the store file
// is fully overwritten on every mutating call.
type SurveyRepository interface {
	Load() error
	All() map[models.SurveyCategory][]models.SurveyRecord
	Get(category models.SurveyCategory, index int) (models.SurveyRecord, error)
	ReplaceAll(category models.SurveyCategory, records []models.SurveyRecord) error
	Update(category models.SurveyCategory, index int, record models.SurveyRecord) error
	MarkReminderSent(category models.SurveyCategory, key string) error
}

// FileSurveyRepository persists the survey set as a single JSON document
type FileSurveyRepository struct {
	mu       sync.Mutex
	path     string
	location *time.Location
	now      func() time.Time
	logger   *log.Logger

	surveys map[models.SurveyCategory][]models.SurveyRecord
}

// NewFileSurveyRepository creates a repository backed by the JSON document at path.
// The location is used for the "has this survey passed" cutoff during ingestion.
func NewFileSurveyRepository(path string, location *time.Location, logger *log.Logger) *FileSurveyRepository {
	if logger == nil {
		logger = log.Default()
	}
	if location == nil {
		location = time.Local
	}
	return &FileSurveyRepository{
		path:     path,
		location: location,
		now:      time.Now,
		logger:   logger,
		surveys:  emptyStore(),
	}
}

func emptyStore() map[models.SurveyCategory][]models.SurveyRecord {
	store := make(map[models.SurveyCategory][]models.SurveyRecord, 2)
	for _, c := range models.Categories() {
		store[c] = []models.SurveyRecord{}
	}
	return store
}

// Load reads the persisted store into memory. A missing file is not an error;
// the repository starts empty and the next persist creates it.
func (r *FileSurveyRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.surveys = emptyStore()
			return nil
		}
		return fmt.Errorf("failed to read survey store %s: %w", r.path, err)
	}

	store := emptyStore()
	if err := json.Unmarshal(data, &store); err != nil {
		return fmt.Errorf("failed to decode survey store %s: %w", r.path, err)
	}
	for _, c := range models.Categories() {
		if store[c] == nil {
			store[c] = []models.SurveyRecord{}
		}
	}
	r.surveys = store
	return nil
}

// All returns a copy of the current survey set partitioned by category
func (r *FileSurveyRepository) All() map[models.SurveyCategory][]models.SurveyRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[models.SurveyCategory][]models.SurveyRecord, len(r.surveys))
	for c, records := range r.surveys {
		out[c] = copyRecords(records)
	}
	return out
}

// Get returns one record by category and position
func (r *FileSurveyRepository) Get(category models.SurveyCategory, index int) (models.SurveyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, ok := r.surveys[category]
	if !ok || index < 0 || index >= len(records) {
		return models.SurveyRecord{}, fmt.Errorf("survey not found: category=%s index=%d", category, index)
	}
	return cloneRecord(records[index]), nil
}

// ReplaceAll installs a freshly ingested record set for one category. Past
// surveys are dropped (parse failures fail open and keep the record), the
// ReminderSent flag is carried over from the previous generation by derived
// key, and an empty volunteer-led collection gets one blank placeholder row.
func (r *FileSurveyRepository) ReplaceAll(category models.SurveyCategory, records []models.SurveyRecord) error {
	if !category.Valid() {
		return fmt.Errorf("invalid survey category: %q", category)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sentByKey := make(map[string]bool, len(r.surveys[category]))
	for _, prev := range r.surveys[category] {
		if prev.ReminderSent {
			sentByKey[prev.Key()] = true
		}
	}

	now := r.now()
	kept := make([]models.SurveyRecord, 0, len(records))
	for _, rec := range records {
		if rec.HasPassed(now, r.location) {
			continue
		}
		rec = cloneRecord(rec)
		if sentByKey[rec.Key()] {
			rec.ReminderSent = true
		}
		kept = append(kept, rec)
	}

	if category == models.CategoryVolunteerLed && len(kept) == 0 {
		kept = append(kept, models.BlankSurveyRecord())
	}

	r.surveys[category] = kept
	return r.persistLocked()
}

// Update overwrites one record's editable fields. ReminderSent is monotonic:
// once true it cannot be cleared through an edit.
func (r *FileSurveyRepository) Update(category models.SurveyCategory, index int, record models.SurveyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, ok := r.surveys[category]
	if !ok || index < 0 || index >= len(records) {
		return fmt.Errorf("survey not found: category=%s index=%d", category, index)
	}

	record = cloneRecord(record)
	if records[index].ReminderSent {
		record.ReminderSent = true
	}
	records[index] = record
	return r.persistLocked()
}

// MarkReminderSent flips the ReminderSent flag of the record identified by its
// derived key and persists the transition immediately. The record is resolved
// under the repository lock, so a ReplaceAll that reordered or pruned the set
// since the caller's snapshot cannot redirect the mark to a different record.
// The flag never transitions back.
func (r *FileSurveyRepository) MarkReminderSent(category models.SurveyCategory, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, ok := r.surveys[category]
	if !ok {
		return fmt.Errorf("invalid survey category: %q", category)
	}
	for i := range records {
		if records[i].Key() != key {
			continue
		}
		if records[i].ReminderSent {
			return nil
		}
		records[i].ReminderSent = true
		return r.persistLocked()
	}
	return fmt.Errorf("survey not found: category=%s key=%q", category, key)
}

// persistLocked overwrites the store file atomically enough via a temp file and
// rename. Callers hold r.mu. A write failure leaves the in-memory state
// authoritative; the next successful persist catches up.
func (r *FileSurveyRepository) persistLocked() error {
	data, err := json.MarshalIndent(r.surveys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode survey store: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".surveys-*.json")
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
		return fmt.Errorf("failed to replace survey store %s: %w", r.path, err)
	}
	return nil
}

func copyRecords(records []models.SurveyRecord) []models.SurveyRecord {
	out := make([]models.SurveyRecord, len(records))
	for i, rec := range records {
		out[i] = cloneRecord(rec)
	}
	return out
}

func cloneRecord(rec models.SurveyRecord) models.SurveyRecord {
	participants := make([]string, len(rec.Participants))
	copy(participants, rec.Participants)
	rec.Participants = participants
	return rec
}
