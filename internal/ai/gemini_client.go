package ai

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient генерирует текст через Gemini API (google.golang.org/genai).
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient создаёт клиент Gemini API по ключу. baseURL и httpClient опциональны.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string, httpClient *http.Client) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if u := strings.TrimSpace(baseURL); u != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: u}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.UserPrompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
