// internal/api/router.go
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veospark/veospark-server/internal/config"
	"github.com/veospark/veospark-server/internal/di"
	"github.com/veospark/veospark-server/internal/services"
)

// SetupRouter wires the HTTP routes. Services come from the DI container;
// the router never creates its own instances.
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()

	container := di.GetContainer()

	promptService, err := resolve[*services.PromptService](container, "prompt")
	if err != nil {
		return nil, err
	}
	translationService, err := resolve[*services.TranslationService](container, "translation")
	if err != nil {
		return nil, err
	}
	historyService, err := resolve[*services.HistoryService](container, "history")
	if err != nil {
		return nil, err
	}
	llmService, err := resolve[*services.LLMService](container, "llm")
	if err != nil {
		return nil, err
	}
	progressService, err := resolve[*services.ProgressService](container, "progress")
	if err != nil {
		return nil, err
	}

	handler := NewHandler(promptService, translationService, historyService, llmService, progressService)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Progress streaming for in-flight generations.
	r.GET("/ws/progress/:task_id", handler.ProgressWebSocket)

	api := r.Group("/api")
	api.Use(RateLimitByIP(120, time.Minute))
	{
		prompts := api.Group("/prompts")
		{
			prompts.GET("", handler.ListPrompts)
			prompts.POST("", handler.GeneratePrompt)
			prompts.POST("/suggest", handler.SuggestDetails)
			prompts.POST("/auto-design", handler.AutoDesign)
			prompts.GET("/:id", handler.GetPrompt)
			prompts.DELETE("/:id", handler.DeletePrompt)
			prompts.POST("/:id/regenerate", handler.RegeneratePrompt)
		}

		language := api.Group("/language")
		{
			language.GET("", handler.GetLanguage)
			language.POST("/switch", handler.SwitchLanguage)
		}

		llmGroup := api.Group("/llm")
		{
			llmGroup.GET("/status", handler.GetLLMStatus)
			llmGroup.GET("/models", handler.GetLLMModels)
			llmGroup.PUT("/config", handler.UpdateLLMConfig)
		}

		api.GET("/catalogs", handler.GetCatalogs)
	}

	return r, nil
}

func resolve[T any](container *di.Container, name string) (T, error) {
	var zero T

	value, err := container.Get(name)
	if err != nil {
		return zero, fmt.Errorf("service %q not initialized: %w", name, err)
	}

	service, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("service %q has unexpected type %T", name, value)
	}

	return service, nil
}
