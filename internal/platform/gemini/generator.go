package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"regexp"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/domain"
	"github.com/studyforge/studyforge/internal/generation"
)

// fencedJSON matches a markdown code fence so responses wrapped in
// ```json ... ``` can still be decoded.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Generator implements the generation.Generator interface using Google's
// Gemini API to produce study materials from extracted content.
type Generator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	model          string

	// callModel sends one prompt to the backing model and returns the raw
	// response text. Replaced in tests.
	callModel func(ctx context.Context, prompt string) (string, error)
}

// NewGenerator creates a Generator backed by a Gemini API client.
//
// Returns an error if the logger is nil, the configuration is incomplete,
// or the client cannot be constructed.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := parsePromptTemplate()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	g := &Generator{
		logger:         logger,
		config:         cfg,
		promptTemplate: promptTemplate,
		model:          cfg.ModelName,
	}
	g.callModel = func(ctx context.Context, prompt string) (string, error) {
		return callGemini(ctx, client, g.model, prompt)
	}

	return g, nil
}

// GenerateMaterials produces study materials for the given content,
// retrying transient API failures with exponential backoff.
func (g *Generator) GenerateMaterials(ctx context.Context, content, title string) (*domain.StudyMaterials, error) {
	if content == "" {
		return nil, generation.ErrEmptyContent
	}

	prompt, err := g.buildPrompt(content, title)
	if err != nil {
		return nil, err
	}

	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	materials, err := parseMaterials(text)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "generated study materials",
		"flashcards", len(materials.Flashcards),
		"questions", len(materials.Questions),
		"content_length", len(content))
	return materials, nil
}

// callWithRetry sends the prompt, retrying up to config.MaxRetries times
// with exponential backoff and jitter. Permanent errors (blocked content,
// malformed responses) are returned immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		text, err := g.callModel(ctx, prompt)
		if err == nil {
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt, jittered into [0.5, 1.0) of itself.
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attempt+1,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callGemini performs one GenerateContent request and extracts the response
// text, classifying empty or blocked responses as permanent errors.
func callGemini(ctx context.Context, client *genai.Client, model, prompt string) (string, error) {
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	})
	if err != nil {
		// API-level failures are assumed transient; the retry loop decides
		// whether to give up.
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response stopped by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	return resp.Text(), nil
}

// parseMaterials decodes the model's JSON reply into study materials,
// tolerating a markdown code fence around the JSON. A structurally
// incomplete reply is a permanent ErrInvalidResponse.
func parseMaterials(text string) (*domain.StudyMaterials, error) {
	jsonStr := text
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		jsonStr = m[1]
	}

	var materials domain.StudyMaterials
	if err := json.Unmarshal([]byte(strings.TrimSpace(jsonStr)), &materials); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	if err := materials.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return &materials, nil
}
