// cmd/assistant-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"orumaiv/internal/common/config"
	"orumaiv/internal/common/database"
	"orumaiv/internal/common/llm"
	"orumaiv/internal/common/logger"
	"orumaiv/internal/common/observability"
	"orumaiv/internal/dashboard"
	"orumaiv/internal/nlu"
	"orumaiv/internal/orchestrator"
	"orumaiv/internal/responder"
	"orumaiv/internal/server"
	"orumaiv/internal/session"
	"orumaiv/internal/specialist"
	"orumaiv/internal/taskagent"
	"orumaiv/internal/taskstore"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New("assistant-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Generative model (optional: without a key everything degrades to
	// keyword classification and templates) ---
	var model llm.ChatModel
	if cfg.GenAI.HasValidAPIKey() {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GenAI, log)
		if err != nil {
			zapLog.Fatal("genai client failed", zap.Error(err))
		}
		model = gemini
		zapLog.Info("GenAI client initialized", zap.String("model", cfg.GenAI.Model))
	} else {
		zapLog.Warn("no valid GenAI credential, running in degraded mode")
	}

	// --- Session store: Redis when configured, in-process otherwise ---
	sessionTTL := time.Duration(cfg.Sessions.TTL) * time.Second
	var sessions session.Store
	if cfg.Sessions.Backend == "redis" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient, sessionTTL)
		zapLog.Info("Redis session store connected")
	} else {
		sessions = session.NewMemoryStore(sessionTTL)
	}

	// --- Task store: in-memory unless task actions are mocked ---
	var tasks taskstore.Store
	if !cfg.Assistant.MockTaskActions {
		tasks = taskstore.NewMemoryStore()
	}

	// --- Assemble the assistant ---
	extractor := nlu.NewExtractor()
	classifier := nlu.NewClassifier(model, extractor, log)
	executor := taskagent.NewExecutor(tasks, extractor, cfg.Assistant.MaxTitleLength, log)
	render := responder.New(log)

	pipeline, err := dashboard.NewPipeline(tasks, model, log)
	if err != nil {
		zapLog.Fatal("dashboard pipeline init failed", zap.Error(err))
	}

	agent := orchestrator.NewAgent(model, specialist.NewRouter(log), sessions, cfg.Sessions.MaxTurns, log)
	orch := orchestrator.New(classifier, executor, render, pipeline, agent, tasks, log)

	srv := server.New(cfg.Server, orch, obs, log)

	// --- Run until interrupted ---
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("assistant server stopped")
}
