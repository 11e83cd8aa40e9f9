// Package config builds the process-wide model.Config from an optional
// YAML file and the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/August26/vpncheck-go/internal/classifier"
	"github.com/August26/vpncheck-go/internal/model"
	"github.com/August26/vpncheck-go/internal/search"
)

const (
	DefaultListenAddr       = ":8000"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultOpenAIModel      = classifier.DefaultOpenAIModel
	DefaultGeminiModel      = classifier.DefaultGeminiModel
	DefaultSearchBaseURL    = search.DefaultBaseURL
	DefaultSearchMaxResults = search.DefaultMaxResults
	DefaultCymruDNSServer   = "8.8.8.8:53"
)

// ErrMissingSecret is returned by RequireSecret when no API key is configured.
var ErrMissingSecret = errors.New("API_KEY is not set")

// Load reads path (if non-empty), applies environment overrides and defaults,
// and validates the result.
func Load(path string) (model.Config, error) {
	var cfg model.Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return model.Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return model.Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return model.Config{}, err
	}
	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *model.Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	// The shared secret is compared verbatim, so it is not trimmed.
	if v, ok := lookup("API_KEY"); ok && v != "" {
		cfg.APIKey = v
	}
	str("LISTEN_ADDR", &cfg.ListenAddr)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("OUTBOUND_PROXY", &cfg.OutboundProxy)
	if err := num("HTTP_TIMEOUT_SECONDS", &cfg.TimeoutSeconds); err != nil {
		return err
	}

	str("LLM_PROVIDER", &cfg.LLM.Provider)
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	switch cfg.LLM.Provider {
	case model.ProviderGemini:
		str("GOOGLE_API_KEY", &cfg.LLM.APIKey)
		str("GEMINI_API_KEY", &cfg.LLM.APIKey)
		str("GEMINI_MODEL", &cfg.LLM.Model)
	default:
		str("OPENAI_API_KEY", &cfg.LLM.APIKey)
		str("OPENAI_BASE_URL", &cfg.LLM.BaseURL)
		str("OPENAI_MODEL", &cfg.LLM.Model)
	}

	str("SEARCH_BASE_URL", &cfg.Search.BaseURL)
	if err := num("SEARCH_MAX_RESULTS", &cfg.Search.MaxResults); err != nil {
		return err
	}

	str("RDAP_BASE_URL", &cfg.Registry.RDAPBaseURL)
	str("CYMRU_DNS_SERVER", &cfg.Registry.DNSServer)
	str("GEOIP_ASN_DB", &cfg.Registry.GeoIPASNPath)
	return nil
}

func applyDefaults(cfg *model.Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = model.ProviderOpenAI
	}
	switch cfg.LLM.Provider {
	case model.ProviderOpenAI:
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = DefaultOpenAIBaseURL
		}
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = DefaultOpenAIModel
		}
	case model.ProviderGemini:
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = DefaultGeminiModel
		}
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = DefaultSearchBaseURL
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = DefaultSearchMaxResults
	}
	if cfg.Registry.DNSServer == "" {
		cfg.Registry.DNSServer = DefaultCymruDNSServer
	}
}

// Validate checks the fields every command needs.
func Validate(cfg model.Config) error {
	switch cfg.LLM.Provider {
	case model.ProviderOpenAI, model.ProviderGemini:
	default:
		return fmt.Errorf("unsupported llm provider %q (want %s or %s)",
			cfg.LLM.Provider, model.ProviderOpenAI, model.ProviderGemini)
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("no API key configured for llm provider %s", cfg.LLM.Provider)
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", cfg.TimeoutSeconds)
	}
	if cfg.Search.MaxResults < 0 {
		return fmt.Errorf("search max_results must not be negative, got %d", cfg.Search.MaxResults)
	}
	return nil
}

// RequireSecret reports ErrMissingSecret when the service would start
// without a shared secret.
func RequireSecret(cfg model.Config) error {
	if cfg.APIKey == "" {
		return ErrMissingSecret
	}
	return nil
}
