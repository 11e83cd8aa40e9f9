package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/August26/vpncheck-go/internal/classifier"
	"github.com/August26/vpncheck-go/internal/httpclient"
	"github.com/August26/vpncheck-go/internal/model"
	"github.com/August26/vpncheck-go/internal/pipeline"
	"github.com/August26/vpncheck-go/internal/registry"
	"github.com/August26/vpncheck-go/internal/search"
)

// components holds the long-lived backends shared by every batch.
type components struct {
	orchestrator *pipeline.Orchestrator
	closers      []func() error
}

func (c *components) Close() error {
	var errs []error
	for _, fn := range c.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

func buildComponents(ctx context.Context, cfg model.Config, log *slog.Logger) (*components, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	c := &components{}

	client, err := httpclient.New(cfg.OutboundProxy, timeout)
	if err != nil {
		return nil, err
	}

	sources := []registry.ASNSource{registry.NewCymru(cfg.Registry.DNSServer, timeout)}
	if cfg.Registry.GeoIPASNPath != "" {
		geo, err := registry.OpenGeoLite(cfg.Registry.GeoIPASNPath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, geo)
		c.closers = append(c.closers, geo.Close)
	}
	resolver := registry.NewResolver(log, registry.NewRDAP(client, cfg.Registry.RDAPBaseURL), sources...)

	gatherer := search.NewDuckDuckGo(client, log, search.Options{
		BaseURL:    cfg.Search.BaseURL,
		MaxResults: cfg.Search.MaxResults,
		UserAgent:  cfg.Search.UserAgent,
	})

	backend, err := newBackend(ctx, cfg.LLM, client)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.orchestrator = pipeline.New(resolver, gatherer, classifier.New(backend, log), log)
	return c, nil
}

func newBackend(ctx context.Context, llm model.LLMConfig, client *http.Client) (classifier.Backend, error) {
	switch llm.Provider {
	case model.ProviderGemini:
		g, err := classifier.NewGemini(ctx, client, llm.APIKey, llm.Model, llm.BaseURL)
		if err != nil {
			return nil, err
		}
		return g, nil
	case model.ProviderOpenAI:
		return classifier.NewOpenAI(client, llm.BaseURL, llm.APIKey, llm.Model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", llm.Provider)
	}
}
