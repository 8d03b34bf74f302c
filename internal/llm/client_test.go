package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFromEnvDefaultsAndOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_API_KEY", " key-123 ")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_TEMPERATURE", "0.7")
	t.Setenv("GEMINI_MAX_OUTPUT_TOKENS", "oops")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, defaultModel, cfg.Model)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-6)
	assert.Equal(t, int32(defaultMaxOutputTokens), cfg.MaxOutputTokens)
}

func TestExtractText(t *testing.T) {
	_, err := extractText(nil)
	assert.EqualError(t, err, "empty LLM response")

	_, err = extractText(&genai.GenerateContentResponse{})
	assert.EqualError(t, err, "no text candidates in LLM response")

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []genai.Part{}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Média "), genai.Text("23.1 °C")}}},
		},
	}
	text, err := extractText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Média 23.1 °C", text)
}

func TestGenerateTextRejectsBlankPrompt(t *testing.T) {
	_, err := (&Client{}).GenerateText(context.Background(), "system", " ", "")
	assert.EqualError(t, err, "user prompt is empty")
}
