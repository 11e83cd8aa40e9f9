package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/August26/vpncheck-go/internal/logging"
	"github.com/August26/vpncheck-go/internal/model"
)

type fakeBackend struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestClassify_Positive(t *testing.T) {
	b := &fakeBackend{reply: `{"is_vpn": true, "explanation": "Markets itself as a VPN."}`}
	c := New(b, logging.Discard())

	v, err := c.Classify(context.Background(), "Nord Security", "NORDVPN", "NordVPN is a VPN service.")
	require.NoError(t, err)
	assert.Equal(t, model.Verdict{IsVPN: true, Explanation: "Markets itself as a VPN."}, v)

	require.Len(t, b.prompts, 1)
	assert.Contains(t, b.prompts[0], "Organization Name: Nord Security\n")
	assert.Contains(t, b.prompts[0], "ASN Description: NORDVPN\n")
	assert.Contains(t, b.prompts[0], "Search Results:\nNordVPN is a VPN service.\n")
}

func TestClassify_NotJSONFallsBack(t *testing.T) {
	b := &fakeBackend{reply: "I think this is a VPN."}
	v, err := New(b, logging.Discard()).Classify(context.Background(), "Google LLC", "GOOGLE, US", "search engine")
	require.NoError(t, err)
	assert.Equal(t, FallbackVerdict, v)
	assert.False(t, v.IsVPN)
	assert.Equal(t, "Error parsing result. Assuming not a VPN due to uncertainty.", v.Explanation)
}

func TestClassify_EmptyAnswerFallsBack(t *testing.T) {
	b := &fakeBackend{err: &ParseError{Err: errors.New("no completion returned")}}
	v, err := New(b, logging.Discard()).Classify(context.Background(), "Blocked Org", "N/A", "")
	require.NoError(t, err)
	assert.Equal(t, FallbackVerdict, v)
}

func TestClassify_BackendFailure(t *testing.T) {
	b := &fakeBackend{err: errors.New("connection refused")}
	_, err := New(b, logging.Discard()).Classify(context.Background(), "x", "y", "z")
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "fake", be.Backend)
}

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want model.Verdict
		ok   bool
	}{
		{"plain", `{"is_vpn": false, "explanation": "Search engine."}`, model.Verdict{Explanation: "Search engine."}, true},
		{"whitespace", "\n  {\"is_vpn\": true, \"explanation\": \"\"}\n", model.Verdict{IsVPN: true}, true},
		{"extra field", `{"is_vpn": true, "explanation": "x", "confidence": 1}`, model.Verdict{IsVPN: true, Explanation: "x"}, true},
		{"empty", "", model.Verdict{}, false},
		{"missing is_vpn", `{"explanation": "x"}`, model.Verdict{}, false},
		{"missing explanation", `{"is_vpn": true}`, model.Verdict{}, false},
		{"string bool", `{"is_vpn": "true", "explanation": "x"}`, model.Verdict{}, false},
		{"code fence", "```json\n{\"is_vpn\": true, \"explanation\": \"x\"}\n```", model.Verdict{}, false},
		{"trailing text", `{"is_vpn": true, "explanation": "x"} done`, model.Verdict{}, false},
		{"array", `[true, "x"]`, model.Verdict{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseVerdict(tc.raw)
			if !tc.ok {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	p, err := RenderPrompt("Acme <Corp>", "N/A", "No good DuckDuckGo Search Result was found")
	require.NoError(t, err)
	assert.Contains(t, p, "Organization Name: Acme <Corp>\n")
	assert.Contains(t, p, "e.g., NordVPN, ExpressVPN")
	assert.Contains(t, p, "- It's a hosting service or cloud provider.")
	assert.Contains(t, p, "{\n    \"is_vpn\": true/false,\n    \"explanation\": \"Your very brief explanation here\"\n}")
	assert.Contains(t, p, `Set "is_vpn" to true ONLY if you are absolutely certain based on the criteria above.`)
}
