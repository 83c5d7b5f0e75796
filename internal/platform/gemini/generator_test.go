package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/generation"
)

const validResponse = `{
	"notes": "- key point one\n- key point two",
	"flashcards": [{"front": "Q1", "back": "A1"}, {"front": "Q2", "back": "A2"}],
	"questions": [{"question": "Why does this matter?", "hint": "think causality"}]
}`

func testGenerator(t *testing.T, callModel func(ctx context.Context, prompt string) (string, error)) *Generator {
	t.Helper()

	tmpl, err := parsePromptTemplate()
	require.NoError(t, err)

	return &Generator{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		config:         config.LLMConfig{MaxRetries: 2, RetryDelaySeconds: 1},
		promptTemplate: tmpl,
		model:          "gemini-test",
		callModel:      callModel,
	}
}

func TestGenerateMaterials(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	g := testGenerator(t, func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return validResponse, nil
	})

	materials, err := g.GenerateMaterials(context.Background(), "source content", "My Article")
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, `titled "My Article"`)
	assert.Contains(t, gotPrompt, "source content")
	assert.Len(t, materials.Flashcards, 2)
	assert.Len(t, materials.Questions, 1)
	assert.Equal(t, "Q1", materials.Flashcards[0].Front)
}

func TestGenerateMaterialsEmptyContent(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("model must not be called for empty content")
		return "", nil
	})

	_, err := g.GenerateMaterials(context.Background(), "", "Title")
	assert.ErrorIs(t, err, generation.ErrEmptyContent)
}

func TestGenerateMaterialsDefaultTitle(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	g := testGenerator(t, func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return validResponse, nil
	})

	_, err := g.GenerateMaterials(context.Background(), "content", "")
	require.NoError(t, err)
	assert.Contains(t, gotPrompt, `titled "Article"`)
}

func TestGenerateMaterialsRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	g := testGenerator(t, func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("%w: flaky upstream", generation.ErrTransientFailure)
		}
		return validResponse, nil
	})

	materials, err := g.GenerateMaterials(context.Background(), "content", "Title")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.NotNil(t, materials)
}

func TestGenerateMaterialsExhaustsRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	g := testGenerator(t, func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", fmt.Errorf("%w: still down", generation.ErrTransientFailure)
	})

	_, err := g.GenerateMaterials(context.Background(), "content", "Title")
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 3, calls, "initial attempt plus MaxRetries")
}

func TestGenerateMaterialsPermanentErrorNotRetried(t *testing.T) {
	t.Parallel()

	calls := 0
	g := testGenerator(t, func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", fmt.Errorf("%w: safety", generation.ErrContentBlocked)
	})

	_, err := g.GenerateMaterials(context.Background(), "content", "Title")
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
	assert.Equal(t, 1, calls)
}

func TestGenerateMaterialsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	g := testGenerator(t, func(ctx context.Context, prompt string) (string, error) {
		cancel()
		return "", errors.New("transient-looking failure")
	})

	_, err := g.GenerateMaterials(ctx, "content", "Title")
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
}

func TestParseMaterials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "bare json", text: validResponse},
		{name: "fenced json", text: "```json\n" + validResponse + "\n```"},
		{name: "fenced without language", text: "```\n" + validResponse + "\n```"},
		{name: "surrounding prose with fence", text: "Here you go:\n```json\n" + validResponse + "\n```\nEnjoy!"},
		{name: "not json", text: "I cannot help with that.", wantErr: generation.ErrInvalidResponse},
		{name: "missing notes", text: `{"flashcards":[{"front":"q","back":"a"}],"questions":[{"question":"Why?"}]}`, wantErr: generation.ErrInvalidResponse},
		{name: "missing flashcards", text: `{"notes":"- n","questions":[{"question":"Why?"}]}`, wantErr: generation.ErrInvalidResponse},
		{name: "missing questions", text: `{"notes":"- n","flashcards":[{"front":"q","back":"a"}]}`, wantErr: generation.ErrInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			materials, err := parseMaterials(tc.text)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, materials.Flashcards, 2)
		})
	}
}

func TestTruncateContent(t *testing.T) {
	t.Parallel()

	short := "short content"
	assert.Equal(t, short, truncateContent(short))

	long := strings.Repeat("x", maxContentLength+100)
	got := truncateContent(long)
	assert.Len(t, got, maxContentLength+len(truncationMarker))
	assert.True(t, strings.HasSuffix(got, truncationMarker))
}

func TestNewGeneratorValidation(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("nil logger", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(context.Background(), nil, config.LLMConfig{GeminiAPIKey: "key", ModelName: "m"})
		assert.Error(t, err)
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(context.Background(), logger, config.LLMConfig{ModelName: "m"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("missing model name", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(context.Background(), logger, config.LLMConfig{GeminiAPIKey: "key"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}
