package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultOpenAIModel     = "gpt-3.5-turbo-instruct"
	DefaultOpenAIMaxTokens = 256
)

// OpenAI talks to a /completions endpoint (OpenAI or compatible).
type OpenAI struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

func NewOpenAI(client *http.Client, baseURL, apiKey, model string) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: DefaultOpenAIMaxTokens,
	}
}

// Temperature has no omitempty: zero must be sent explicitly.
type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &BackendError{Backend: o.Name(), Err: err}
	}

	body, err := json.Marshal(completionRequest{
		Model:       o.model,
		Prompt:      prompt,
		MaxTokens:   o.maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return fail(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	var cr completionResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return fail(fmt.Errorf("decode response: %w", err))
	}
	if cr.Error != nil {
		return fail(fmt.Errorf("api error: %s", cr.Error.Message))
	}
	if len(cr.Choices) == 0 {
		return "", &ParseError{Raw: string(data), Err: errors.New("no completion returned")}
	}
	return cr.Choices[0].Text, nil
}
