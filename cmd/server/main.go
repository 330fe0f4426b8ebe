// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veospark/veospark-server/internal/api"
	"github.com/veospark/veospark-server/internal/app"
	"github.com/veospark/veospark-server/internal/config"

	// Provider registration.
	_ "github.com/veospark/veospark-server/internal/llm/providers/google"
	_ "github.com/veospark/veospark-server/internal/llm/providers/openrouter"
)

func main() {
	log.Println("starting veospark server...")

	// 1. Base configuration from the environment.
	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 2. Configuration system (merges persisted config.json).
	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		log.Fatalf("failed to initialize configuration system: %v", err)
	}

	// 3. Logging.
	if err := app.InitLogging(baseConfig.LogDir); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}

	// 4. Services, in dependency order.
	if err := app.InitServices(); err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	// 5. Routes.
	router, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	log.Printf("server listening on port %s", baseConfig.Port)
	runWithGracefulShutdown(router, baseConfig.Port)
}

func runWithGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced server shutdown: %v", err)
	}

	log.Println("server shut down cleanly")
}
