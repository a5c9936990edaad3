// Package generator implements bounded text generation with Google's Gemini
// API. Access to the underlying model call is serialized with a single lock,
// so generation requests queue and execute one at a time.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/mrocha/faqbot/internal/config"
	apperrors "github.com/mrocha/faqbot/internal/errors"
)

// ErrEmptyReply reports that the model call succeeded but produced no text.
// Callers may substitute a fixed fallback message for this case.
var ErrEmptyReply = errors.New("model returned empty text")

// Client defines the interface for response generation. transcript carries
// the prior conversation turns ("User: ..." / "Bot: ..." strings); only the
// most recent turns feed the prompt.
type Client interface {
	Generate(ctx context.Context, transcript []string, input string) (string, error)
}

type sdkClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	promptTurns   int
	timeout       time.Duration

	// mu guarantees at most one concurrent model call.
	mu sync.Mutex

	// generate performs the raw model call; replaced in tests.
	generate func(ctx context.Context, prompt string) (string, error)
}

// NewClient creates a new generation client with the provided configuration.
// It initializes the connection to the Gemini API and fixes the sampling
// parameters for all subsequent calls.
func NewClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	contentCfg := &genai.GenerateContentConfig{
		Temperature:      &cfg.Temperature,
		TopP:             &cfg.TopP,
		TopK:             &cfg.TopK,
		FrequencyPenalty: &cfg.FrequencyPenalty,
		MaxOutputTokens:  cfg.MaxOutputTokens,
	}

	logger := log.With("component", "generator")

	c := &sdkClient{
		genaiClient:   gi,
		log:           logger,
		contentConfig: contentCfg,
		modelName:     cfg.Model,
		promptTurns:   cfg.MaxPromptTurns,
		timeout:       cfg.Timeout,
	}
	c.generate = c.generateContent

	logger.Info("Generation client initialized successfully", "model", cfg.Model)
	return c, nil
}

// Generate builds a flat prompt from the most recent transcript turns plus
// the new input and decodes a bounded continuation. The model call is held
// under the client lock; concurrent callers queue.
func (c *sdkClient) Generate(ctx context.Context, transcript []string, input string) (string, error) {
	prompt := buildPrompt(transcript, input, c.promptTurns)

	c.mu.Lock()
	defer c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.log.DebugContext(ctx, "Generating reply", "transcript_len", len(transcript))

	text, err := c.generate(callCtx, prompt)
	if err != nil {
		c.log.ErrorContext(ctx, "Generation failed", "error", err)
		return "", apperrors.NewGenerationError("model call failed", err)
	}

	reply := strings.TrimSpace(text)
	if reply == "" {
		c.log.WarnContext(ctx, "Model returned empty text")
		return "", apperrors.NewGenerationError("generation produced no text", ErrEmptyReply)
	}

	return reply, nil
}

func (c *sdkClient) generateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), c.contentConfig)
	if err != nil {
		return "", err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		return "", fmt.Errorf("request blocked by safety filter: %s", reasonMsg)
	}

	return resp.Text(), nil
}

// buildPrompt joins the last maxTurns transcript entries and the new input
// into a single flat text prompt.
func buildPrompt(transcript []string, input string, maxTurns int) string {
	if maxTurns > 0 && len(transcript) > maxTurns {
		transcript = transcript[len(transcript)-maxTurns:]
	}

	parts := make([]string, 0, len(transcript)+1)
	parts = append(parts, transcript...)
	parts = append(parts, input)
	return strings.Join(parts, " ")
}
