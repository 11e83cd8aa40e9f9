// Package classifier asks a language model whether an organization is a
// VPN, private relay or CDN provider.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/August26/vpncheck-go/internal/model"
)

// Backend generates text for a prompt with deterministic sampling.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// FallbackVerdict is used whenever the model's answer cannot be parsed.
var FallbackVerdict = model.Verdict{
	IsVPN:       false,
	Explanation: "Error parsing result. Assuming not a VPN due to uncertainty.",
}

type Classifier struct {
	backend Backend
	log     *slog.Logger
}

func New(backend Backend, log *slog.Logger) *Classifier {
	return &Classifier{backend: backend, log: log}
}

// Classify returns the verdict for one organization. An unparsable answer
// (including an empty one) yields FallbackVerdict and a nil error; only a
// backend failure is returned, as a *BackendError.
func (c *Classifier) Classify(ctx context.Context, orgName, asnDescription, evidence string) (model.Verdict, error) {
	prompt, err := RenderPrompt(orgName, asnDescription, evidence)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("render prompt: %w", err)
	}

	raw, err := c.backend.Generate(ctx, prompt)
	var pe *ParseError
	if errors.As(err, &pe) {
		c.log.Warn("unusable model answer, assuming not a VPN",
			"org", orgName, "backend", c.backend.Name(), "err", err)
		return FallbackVerdict, nil
	}
	if err != nil {
		var be *BackendError
		if !errors.As(err, &be) {
			err = &BackendError{Backend: c.backend.Name(), Err: err}
		}
		return model.Verdict{}, err
	}

	v, err := ParseVerdict(raw)
	if err != nil {
		c.log.Warn("unparsable model answer, assuming not a VPN",
			"org", orgName, "backend", c.backend.Name(), "err", err, "raw", raw)
		return FallbackVerdict, nil
	}
	return v, nil
}

type verdictJSON struct {
	IsVPN       *bool   `json:"is_vpn"`
	Explanation *string `json:"explanation"`
}

// ParseVerdict decodes a single JSON object with a boolean "is_vpn" and a
// string "explanation". Surrounding whitespace is tolerated, nothing else.
func ParseVerdict(raw string) (model.Verdict, error) {
	var vj verdictJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &vj); err != nil {
		return model.Verdict{}, &ParseError{Raw: raw, Err: err}
	}
	if vj.IsVPN == nil {
		return model.Verdict{}, &ParseError{Raw: raw, Err: errors.New(`missing "is_vpn"`)}
	}
	if vj.Explanation == nil {
		return model.Verdict{}, &ParseError{Raw: raw, Err: errors.New(`missing "explanation"`)}
	}
	return model.Verdict{IsVPN: *vj.IsVPN, Explanation: *vj.Explanation}, nil
}
