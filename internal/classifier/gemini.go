package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini generates through the Gemini API with JSON output and temperature 0.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds the genai client once; baseURL is only set by tests
// and self-hosted gateways.
func NewGemini(ctx context.Context, httpClient *http.Client, apiKey, model, baseURL string) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", &BackendError{Backend: g.Name(), Err: err}
	}
	if len(resp.Candidates) == 0 {
		return "", &ParseError{Err: errors.New("no candidates returned")}
	}
	return resp.Text(), nil
}
