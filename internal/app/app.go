// internal/app/app.go
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veospark/veospark-server/internal/config"
	"github.com/veospark/veospark-server/internal/di"
	"github.com/veospark/veospark-server/internal/services"
	"github.com/veospark/veospark-server/internal/storage"
	"github.com/veospark/veospark-server/internal/utils"
)

// InitServices constructs every service in dependency order and registers
// it in the global container. Safe to call once at startup.
func InitServices() error {
	container := di.GetContainer()
	cfg := config.GetCurrentConfig()

	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	container.Register("storage", fileStorage)

	llmService, err := services.NewLLMService()
	if err != nil {
		// Keep the server usable so the key can be configured via the API.
		utils.GetLogger().Warn("llm service unavailable, starting in standby mode", map[string]interface{}{
			"error": err.Error(),
		})
		llmService = services.NewEmptyLLMService()
	}
	container.Register("llm", llmService)

	progressService := services.NewProgressService()
	container.Register("progress", progressService)

	historyService := services.NewHistoryService(fileStorage)
	container.Register("history", historyService)

	promptService := services.NewPromptService(llmService, progressService)
	container.Register("prompt", promptService)

	translationService := services.NewTranslationService(llmService)
	container.Register("translation", translationService)

	// Finished generation tasks linger for a while so late websocket
	// subscribers still see the final state.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			progressService.CleanupCompletedTasks(30 * time.Minute)
		}
	}()

	return nil
}

// InitLogging sets up the file logger under the configured log directory.
func InitLogging(logDir string) error {
	logFile := filepath.Join(logDir, fmt.Sprintf("server_%s.log", time.Now().Format("2006-01-02")))
	if err := utils.InitLogger(logFile); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg := config.GetCurrentConfig()
	if cfg != nil && cfg.DebugMode {
		utils.GetLogger().SetLogLevel(utils.DEBUG)
	}

	return nil
}
