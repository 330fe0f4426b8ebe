// internal/services/history_service.go
package services

import (
	"encoding/json"
	"sync"
	"time"

	apperrors "github.com/veospark/veospark-server/internal/errors"
	"github.com/veospark/veospark-server/internal/models"
	"github.com/veospark/veospark-server/internal/storage"
	"github.com/veospark/veospark-server/internal/utils"
)

const (
	historyDir      = "history"
	historyFilename = "history.json"
	settingsFile    = "settings.json"
)

// HistoryService owns the persisted result history and the language
// preference. Every mutation replaces the whole list atomically and writes
// through to disk in the current record shape.
type HistoryService struct {
	Storage *storage.FileStorage
	logger  *utils.Logger

	mutex    sync.RWMutex
	results  []models.GeneratedPrompt
	language string
}

type persistedSettings struct {
	Language string `json:"language"`
}

// NewHistoryService creates the history service and loads persisted state,
// migrating records from older shapes.
func NewHistoryService(fileStorage *storage.FileStorage) *HistoryService {
	s := &HistoryService{
		Storage:  fileStorage,
		logger:   utils.GetLogger(),
		results:  []models.GeneratedPrompt{},
		language: models.DefaultLanguage,
	}

	s.loadSettings()
	s.loadHistory()

	return s
}

func (s *HistoryService) loadSettings() {
	if !s.Storage.FileExists(historyDir, settingsFile) {
		return
	}

	var settings persistedSettings
	if err := s.Storage.LoadJSONFile(historyDir, settingsFile, &settings); err != nil {
		s.logger.Warn("failed to load settings, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if models.IsValidLanguage(settings.Language) {
		s.language = settings.Language
	}
}

func (s *HistoryService) loadHistory() {
	if !s.Storage.FileExists(historyDir, historyFilename) {
		return
	}

	content, err := s.Storage.LoadTextFile(historyDir, historyFilename)
	if err != nil {
		s.logger.Warn("failed to load history file", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	var rawRecords []interface{}
	if err := json.Unmarshal(content, &rawRecords); err != nil {
		s.logger.Error("history file is corrupt, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	migrated := MigrateRecords(rawRecords)

	s.mutex.Lock()
	s.results = migrated
	s.mutex.Unlock()

	if len(migrated) != len(rawRecords) {
		s.logger.Warn("dropped unrecoverable history records during migration", map[string]interface{}{
			"loaded":  len(rawRecords),
			"dropped": len(rawRecords) - len(migrated),
		})
		// Persist immediately so the upgrade happens once.
		s.persistHistory()
	}
}

// List returns a copy of the history, newest first.
func (s *HistoryService) List() []models.GeneratedPrompt {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]models.GeneratedPrompt, len(s.results))
	copy(out, s.results)
	return out
}

// Get returns the result with the given identifier.
func (s *HistoryService) Get(id string) (*models.GeneratedPrompt, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for i := range s.results {
		if s.results[i].ID == id {
			result := s.results[i]
			return &result, nil
		}
	}
	return nil, apperrors.NewNotFoundError("result not found: "+id, nil)
}

// Add prepends a new result and persists the list.
func (s *HistoryService) Add(result models.GeneratedPrompt) error {
	s.mutex.Lock()
	updated := make([]models.GeneratedPrompt, 0, len(s.results)+1)
	updated = append(updated, result)
	updated = append(updated, s.results...)
	s.results = updated
	s.mutex.Unlock()

	return s.persistHistory()
}

// Delete removes the result with the given identifier.
func (s *HistoryService) Delete(id string) error {
	s.mutex.Lock()
	found := false
	updated := make([]models.GeneratedPrompt, 0, len(s.results))
	for _, r := range s.results {
		if r.ID == id {
			found = true
			continue
		}
		updated = append(updated, r)
	}
	if found {
		s.results = updated
	}
	s.mutex.Unlock()

	if !found {
		return apperrors.NewNotFoundError("result not found: "+id, nil)
	}

	return s.persistHistory()
}

// ReplaceAll swaps in a fully rebuilt history list (translation pass) and
// persists it.
func (s *HistoryService) ReplaceAll(results []models.GeneratedPrompt) error {
	s.mutex.Lock()
	s.results = results
	s.mutex.Unlock()

	return s.persistHistory()
}

// GetLanguage returns the current language tag.
func (s *HistoryService) GetLanguage() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.language
}

// SetLanguage updates and persists the language tag.
func (s *HistoryService) SetLanguage(language string) error {
	if !models.IsValidLanguage(language) {
		return apperrors.NewValidationError("unsupported language: "+language, nil)
	}

	s.mutex.Lock()
	s.language = language
	s.mutex.Unlock()

	return s.Storage.SaveJSONFile(historyDir, settingsFile, persistedSettings{Language: language})
}

func (s *HistoryService) persistHistory() error {
	s.mutex.RLock()
	snapshot := make([]models.GeneratedPrompt, len(s.results))
	copy(snapshot, s.results)
	s.mutex.RUnlock()

	return s.Storage.SaveJSONFile(historyDir, historyFilename, snapshot)
}

// MigrateRecords upgrades persisted records from older shapes into the
// current one. Records lacking an identifier or an originating request are
// dropped. A scalar motion value is wrapped into a one-element list; missing
// lists default to empty; a missing production note gets the placeholder
// defaults.
func MigrateRecords(rawRecords []interface{}) []models.GeneratedPrompt {
	migrated := make([]models.GeneratedPrompt, 0, len(rawRecords))

	for _, raw := range rawRecords {
		record, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if result, ok := migrateRecord(record); ok {
			migrated = append(migrated, result)
		}
	}

	return migrated
}

func migrateRecord(record map[string]interface{}) (models.GeneratedPrompt, bool) {
	id := asString(record["id"])
	reqRaw, hasRequest := record["originalRequest"].(map[string]interface{})
	if id == "" || !hasRequest {
		return models.GeneratedPrompt{}, false
	}

	request := migrateRequest(reqRaw)

	result := models.GeneratedPrompt{
		ID:              id,
		Title:           asString(record["title"]),
		VisualPrompt:    asString(record["visualPrompt"]),
		TechnicalPrompt: asString(record["technicalPrompt"]),
		NegativePrompt:  asString(record["negativePrompt"]),
		Narration:       asString(record["narration"]),
		Characters:      coerceCharacters(record["characters"]),
		ProductionNote:  coerceProductionNote(record["productionNote"]),
		Shots:           migrateShots(record["shots"], request.CutDuration),
		OriginalRequest: request,
	}

	if ts, ok := asInt64(record["timestamp"]); ok {
		result.Timestamp = ts
	} else {
		result.Timestamp = time.Now().UnixMilli()
	}

	return result, true
}

func migrateRequest(reqRaw map[string]interface{}) models.PromptRequest {
	request := models.PromptRequest{
		Topic:         asString(reqRaw["topic"]),
		Style:         asString(reqRaw["style"]),
		AspectRatio:   asString(reqRaw["aspectRatio"]),
		TotalDuration: asString(reqRaw["totalDuration"]),
		CutDuration:   asString(reqRaw["cutDuration"]),
		Details:       asString(reqRaw["details"]),
	}

	// Older records stored motion as a single string.
	switch motion := reqRaw["motion"].(type) {
	case string:
		request.Motion = []string{motion}
	case []interface{}:
		request.Motion = asStringSlice(reqRaw["motion"])
	}
	if len(request.Motion) == 0 {
		request.Motion = []string{models.DefaultCameraMotion}
	}

	return request
}

func migrateShots(value interface{}, cutDuration string) []models.Shot {
	items, ok := value.([]interface{})
	if !ok {
		return []models.Shot{}
	}

	shots := make([]models.Shot, 0, len(items))
	for position, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		shot := coerceShot(entry, position, cutDuration)

		// Persisted shots keep their identifiers and stored durations.
		if storedID := asString(entry["id"]); storedID != "" {
			shot.ID = storedID
		}
		if storedDuration := asString(entry["duration"]); storedDuration != "" {
			shot.Duration = storedDuration
		}

		shots = append(shots, shot)
	}

	return shots
}

func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}
