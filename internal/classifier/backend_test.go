package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_Generate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"text":"\n{\"is_vpn\": false, \"explanation\": \"ISP\"}"}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI(srv.Client(), srv.URL+"/v1/", "sk-test", "")
	out, err := o.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "\n{\"is_vpn\": false, \"explanation\": \"ISP\"}", out)

	require.Contains(t, body, "temperature")
	assert.Equal(t, float64(0), body["temperature"])
	assert.Equal(t, float64(256), body["max_tokens"])
	assert.Equal(t, DefaultOpenAIModel, body["model"])
	assert.Equal(t, "prompt text", body["prompt"])
}

func TestOpenAI_Errors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
		},
		"api error": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"message":"overloaded"}}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewOpenAI(srv.Client(), srv.URL, "k", "m").Generate(context.Background(), "p")
			var be *BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "openai", be.Backend)
		})
	}
}

func TestGemini_Generate(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-test:generateContent"), r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"is_vpn\": true, \"explanation\": \"VPN brand\"}"}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), srv.Client(), "test-key", "gemini-test", srv.URL)
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, `{"is_vpn": true, "explanation": "VPN brand"}`, out)
	assert.Contains(t, raw, "prompt text")
	assert.Contains(t, raw, "temperature")
}

func TestOpenAI_NoChoicesIsUnusableAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.Client(), srv.URL, "k", "m").Generate(context.Background(), "p")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	var be *BackendError
	assert.False(t, errors.As(err, &be))
}

func TestGemini_NoCandidatesIsUnusableAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), srv.Client(), "test-key", "gemini-test", srv.URL)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "p")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
