// Package pipeline runs a batch of IPs through resolve, search and
// classify, one IP at a time and in input order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/August26/vpncheck-go/internal/analytics"
	"github.com/August26/vpncheck-go/internal/model"
)

type Resolver interface {
	Resolve(ctx context.Context, ip string) (model.OrgProfile, error)
}

type Gatherer interface {
	Gather(ctx context.Context, orgName string) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, orgName, asnDescription, evidence string) (model.Verdict, error)
}

// BatchError aborts a batch; it names the first IP that failed.
type BatchError struct {
	IP  string
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("Error processing IP %s: %v", e.IP, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

type Orchestrator struct {
	resolver   Resolver
	gatherer   Gatherer
	classifier Classifier
	log        *slog.Logger
}

func New(r Resolver, g Gatherer, c Classifier, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		resolver:   r,
		gatherer:   g,
		classifier: c,
		log:        log,
	}
}

// Run analyzes ips sequentially. The first failure discards everything
// computed so far and is returned as a *BatchError.
func (o *Orchestrator) Run(ctx context.Context, ips []string) ([]model.AnalysisResult, error) {
	batchID := uuid.NewString()
	log := o.log.With("batch_id", batchID)
	log.Info("batch started", "count", len(ips))

	start := time.Now()
	results := make([]model.AnalysisResult, 0, len(ips))
	for i, ip := range ips {
		res, err := o.analyze(ctx, ip)
		if err != nil {
			log.Error("batch aborted", "ip", ip, "index", i, "err", err)
			return nil, &BatchError{IP: ip, Err: err}
		}
		log.Debug("ip analyzed", "ip", ip, "org", res.OrgName, "is_vpn", res.IsVPN)
		results = append(results, res)
	}

	stats := analytics.Compute(results, time.Since(start))
	log.Info("batch finished",
		"total", stats.TotalIPs,
		"vpn", stats.VPNIPs,
		"total_ms", stats.TotalProcessingTimeMs,
	)
	return results, nil
}

func (o *Orchestrator) analyze(ctx context.Context, ip string) (model.AnalysisResult, error) {
	profile, err := o.resolver.Resolve(ctx, ip)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	evidence, err := o.gatherer.Gather(ctx, profile.OrgName)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	verdict, err := o.classifier.Classify(ctx, profile.OrgName, profile.ASNDescription, evidence)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	res := model.NewAnalysisResult(profile, verdict)
	res.IP = ip
	return res, nil
}
