package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModel           = "gemini-1.5-flash"
	defaultTemperature     = 0.2
	defaultMaxOutputTokens = 1024
)

// ErrMissingAPIKey is returned when no API key is provided via environment variables.
var ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY or LLM_API_KEY")

// Config captures the parameters required to instantiate the LLM client.
type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// FromEnv builds a Config from GEMINI_* variables. GEMINI_API_KEY or
// LLM_API_KEY is required.
func FromEnv() (Config, error) {
	apiKey := firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("LLM_API_KEY"))
	if apiKey == "" {
		return Config{}, ErrMissingAPIKey
	}

	cfg := Config{
		APIKey:          apiKey,
		Model:           firstNonEmpty(os.Getenv("GEMINI_MODEL"), defaultModel),
		Temperature:     defaultTemperature,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TEMPERATURE")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 32); err == nil {
			cfg.Temperature = float32(v)
		}
	}
	if raw := strings.TrimSpace(os.Getenv("GEMINI_MAX_OUTPUT_TOKENS")); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			cfg.MaxOutputTokens = int32(v)
		}
	}
	return cfg, nil
}

// Client wraps the Gemini SDK for single-turn questions about a dataset.
type Client struct {
	client *genai.Client
	cfg    Config
}

// New instantiates a Client using the provided configuration.
func New(ctx context.Context, cfg Config) (*Client, error) {
	genClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create generative ai client: %w", err)
	}
	return &Client{client: genClient, cfg: cfg}, nil
}

// Close releases the underlying SDK resources.
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateText sends one request with an optional system instruction and
// returns the concatenated text of the first non-empty candidate.
func (c *Client) GenerateText(ctx context.Context, systemPrompt string, userParts ...string) (string, error) {
	parts := make([]genai.Part, 0, len(userParts))
	for _, part := range userParts {
		if text := strings.TrimSpace(part); text != "" {
			parts = append(parts, genai.Text(text))
		}
	}
	if len(parts) == 0 {
		return "", errors.New("user prompt is empty")
	}

	model := c.client.GenerativeModel(c.cfg.Model)
	model.SetTemperature(c.cfg.Temperature)
	model.SetMaxOutputTokens(c.cfg.MaxOutputTokens)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return extractText(resp)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty LLM response")
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	return "", errors.New("no text candidates in LLM response")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
