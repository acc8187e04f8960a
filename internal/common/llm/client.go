// Package llm wraps the Gemini API behind a small chat interface so agents
// can be tested against a fake model.
package llm

import (
	"context"
	stderrors "errors"
	"time"

	"google.golang.org/genai"

	"orumaiv/internal/common/config"
	"orumaiv/internal/common/errors"
	"orumaiv/internal/common/logger"
)

// Chat roles accepted by the Gemini API.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is a single message in a conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatModel is the minimal chat-completion interface used by the agents.
type ChatModel interface {
	Generate(ctx context.Context, systemPrompt string, turns []Turn) (string, error)
}

// GeminiClient implements ChatModel against the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
	logger      logger.Logger
}

// NewGeminiClient creates a Gemini-backed chat client from configuration.
func NewGeminiClient(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) (*GeminiClient, error) {
	if !cfg.HasValidAPIKey() {
		return nil, errors.NewConfigurationError("genai.api_key is missing or a placeholder")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewExternalServiceError("genai", err)
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxOutputTokens),
		timeout:     config.GetDuration(cfg.Timeout),
		logger:      log.WithFields(map[string]interface{}{"component": "llm"}),
	}, nil
}

// Generate sends the conversation to the model and returns the reply text.
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt string, turns []Turn) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		var role genai.Role = genai.RoleUser
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: c.maxTokens,
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		c.logger.WithError(err).Warn("gemini call failed", map[string]interface{}{
			"model":       c.model,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if stderrors.Is(err, context.DeadlineExceeded) {
			return "", errors.NewLLMTimeoutError()
		}
		return "", errors.NewLLMCallFailedError(err)
	}

	text := result.Text()
	c.logger.Debug("gemini call completed", map[string]interface{}{
		"model":       c.model,
		"duration_ms": time.Since(start).Milliseconds(),
		"chars":       len(text),
	})
	return text, nil
}
