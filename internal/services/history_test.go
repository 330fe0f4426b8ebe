// internal/services/history_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/veospark/veospark-server/internal/errors"
	"github.com/veospark/veospark-server/internal/models"
	"github.com/veospark/veospark-server/internal/storage"
)

func newTestHistoryService(t *testing.T) *HistoryService {
	t.Helper()

	fileStorage, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	return NewHistoryService(fileStorage)
}

func TestHistoryAddPrependsAndPersists(t *testing.T) {
	service := newTestHistoryService(t)

	first := sampleResult()
	second := sampleResult()
	second.ID = "result-2"

	require.NoError(t, service.Add(first))
	require.NoError(t, service.Add(second))

	list := service.List()
	require.Len(t, list, 2)
	assert.Equal(t, "result-2", list[0].ID)
	assert.Equal(t, "result-1", list[1].ID)

	// A fresh service over the same storage sees the persisted list.
	reloaded := NewHistoryService(service.Storage)
	assert.Len(t, reloaded.List(), 2)
}

func TestHistoryDelete(t *testing.T) {
	service := newTestHistoryService(t)
	require.NoError(t, service.Add(sampleResult()))

	require.NoError(t, service.Delete("result-1"))
	assert.Empty(t, service.List())

	err := service.Delete("missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestHistoryGet(t *testing.T) {
	service := newTestHistoryService(t)
	require.NoError(t, service.Add(sampleResult()))

	result, err := service.Get("result-1")
	require.NoError(t, err)
	assert.Equal(t, "Rainy Cat", result.Title)

	_, err = service.Get("missing")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestHistoryLanguagePersistence(t *testing.T) {
	service := newTestHistoryService(t)
	assert.Equal(t, models.DefaultLanguage, service.GetLanguage())

	require.NoError(t, service.SetLanguage(models.LanguageEnglish))
	assert.Equal(t, models.LanguageEnglish, service.GetLanguage())

	reloaded := NewHistoryService(service.Storage)
	assert.Equal(t, models.LanguageEnglish, reloaded.GetLanguage())

	err := service.SetLanguage("fr")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestMigrateRecordsDropsUnrecoverable(t *testing.T) {
	rawRecords := []interface{}{
		// No identifier.
		map[string]interface{}{
			"originalRequest": map[string]interface{}{"topic": "x"},
		},
		// No originating request.
		map[string]interface{}{
			"id": "r1",
		},
		// Not even an object.
		"garbage",
		// Recoverable.
		map[string]interface{}{
			"id":              "r2",
			"title":           "keep me",
			"originalRequest": map[string]interface{}{"topic": "a cat", "cutDuration": "5s"},
		},
	}

	migrated := MigrateRecords(rawRecords)

	require.Len(t, migrated, 1)
	assert.Equal(t, "r2", migrated[0].ID)
	assert.Equal(t, "keep me", migrated[0].Title)
}

func TestMigrateRecordsWrapsScalarMotion(t *testing.T) {
	rawRecords := []interface{}{
		map[string]interface{}{
			"id": "r1",
			"originalRequest": map[string]interface{}{
				"topic":  "old record",
				"motion": "Pan",
			},
		},
		map[string]interface{}{
			"id": "r2",
			"originalRequest": map[string]interface{}{
				"topic": "no motion at all",
			},
		},
	}

	migrated := MigrateRecords(rawRecords)
	require.Len(t, migrated, 2)

	assert.Equal(t, []string{"Pan"}, migrated[0].OriginalRequest.Motion)
	assert.Equal(t, []string{models.DefaultCameraMotion}, migrated[1].OriginalRequest.Motion)
}

func TestMigrateRecordsAppliesDefaults(t *testing.T) {
	rawRecords := []interface{}{
		map[string]interface{}{
			"id": "r1",
			"originalRequest": map[string]interface{}{
				"topic":       "sparse record",
				"cutDuration": "4s",
			},
			"shots": []interface{}{
				map[string]interface{}{"id": "s1", "visualPrompt": "street"},
			},
		},
	}

	migrated := MigrateRecords(rawRecords)
	require.Len(t, migrated, 1)

	record := migrated[0]
	assert.Equal(t, "", record.Narration)
	assert.Empty(t, record.Characters)
	assert.Equal(t, models.DefaultProductionNote(), record.ProductionNote)
	assert.Positive(t, record.Timestamp)

	require.Len(t, record.Shots, 1)
	assert.Equal(t, "s1", record.Shots[0].ID)
	// A shot without a stored duration inherits the request's cut duration.
	assert.Equal(t, "4s", record.Shots[0].Duration)
}

func TestMigrateRecordsKeepsStoredShotIdentity(t *testing.T) {
	rawRecords := []interface{}{
		map[string]interface{}{
			"id": "r1",
			"originalRequest": map[string]interface{}{
				"topic":       "full record",
				"cutDuration": "5s",
			},
			"shots": []interface{}{
				map[string]interface{}{"id": "shot-a", "index": float64(1), "duration": "3s"},
			},
		},
	}

	migrated := MigrateRecords(rawRecords)
	require.Len(t, migrated, 1)

	assert.Equal(t, "shot-a", migrated[0].Shots[0].ID)
	assert.Equal(t, "3s", migrated[0].Shots[0].Duration)
}
