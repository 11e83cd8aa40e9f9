package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/August26/vpncheck-go/internal/classifier"
	"github.com/August26/vpncheck-go/internal/logging"
	"github.com/August26/vpncheck-go/internal/model"
	"github.com/August26/vpncheck-go/internal/registry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fakeResolver struct {
	profiles map[string]model.OrgProfile
	fail     map[string]error
	calls    []string
}

func (f *fakeResolver) Resolve(_ context.Context, ip string) (model.OrgProfile, error) {
	f.calls = append(f.calls, ip)
	if err, ok := f.fail[ip]; ok {
		return model.OrgProfile{}, err
	}
	return f.profiles[ip], nil
}

type fakeGatherer struct {
	orgs []string
	err  error
}

func (f *fakeGatherer) Gather(_ context.Context, orgName string) (string, error) {
	f.orgs = append(f.orgs, orgName)
	return "evidence for " + orgName, f.err
}

type fakeBackend struct {
	reply string
	err   error
	calls int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(context.Context, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newResolver() *fakeResolver {
	return &fakeResolver{
		profiles: map[string]model.OrgProfile{
			"8.8.8.8":  {IP: "8.8.8.8", ASNDescription: "GOOGLE, US", OrgName: "Google LLC"},
			"1.1.1.1":  {IP: "1.1.1.1", ASNDescription: "CLOUDFLARENET, US", OrgName: "APNIC and Cloudflare DNS Resolver project"},
			"5.6.7.8":  {IP: "5.6.7.8", ASNDescription: model.NotAvailable, OrgName: model.NotAvailable},
			"9.9.9.9":  {IP: "9.9.9.9", ASNDescription: "QUAD9-AS-1, CH", OrgName: "Quad9"},
			"2.2.2.2":  {IP: "2.2.2.2", ASNDescription: "X", OrgName: "X"},
			"3.3.3.3":  {IP: "3.3.3.3", ASNDescription: "Y", OrgName: "Y"},
			"10.0.0.1": {},
		},
		fail: map[string]error{},
	}
}

func TestRun_OrderAndFields(t *testing.T) {
	r := newResolver()
	g := &fakeGatherer{}
	b := &fakeBackend{reply: `{"is_vpn": false, "explanation": "Not a VPN."}`}
	o := New(r, g, classifier.New(b, logging.Discard()), logging.Discard())

	ips := []string{"8.8.8.8", "1.1.1.1", "8.8.8.8"}
	got, err := o.Run(context.Background(), ips)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, res := range got {
		assert.Equal(t, ips[i], res.IP)
		assert.False(t, res.IsVPN)
		assert.Equal(t, "Not a VPN.", res.VPNAnalysis)
	}
	assert.Equal(t, "Google LLC", got[0].OrgName)
	assert.Equal(t, "CLOUDFLARENET, US", got[1].ASNDescription)
	assert.Equal(t, ips, r.calls)
	assert.Equal(t, []string{"Google LLC", "APNIC and Cloudflare DNS Resolver project", "Google LLC"}, g.orgs)
	assert.Equal(t, 3, b.calls)
}

func TestRun_Empty(t *testing.T) {
	r := newResolver()
	o := New(r, &fakeGatherer{}, classifier.New(&fakeBackend{}, logging.Discard()), logging.Discard())

	got, err := o.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, r.calls)
}

func TestRun_FailureAbortsBatch(t *testing.T) {
	r := newResolver()
	r.fail["10.0.0.1"] = &registry.ResolutionError{IP: "10.0.0.1", Err: registry.ErrReservedIP}
	g := &fakeGatherer{}
	b := &fakeBackend{reply: `{"is_vpn": false, "explanation": "x"}`}
	o := New(r, g, classifier.New(b, logging.Discard()), logging.Discard())

	got, err := o.Run(context.Background(), []string{"8.8.8.8", "10.0.0.1", "9.9.9.9"})
	require.Error(t, err)
	assert.Nil(t, got)

	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "10.0.0.1", be.IP)
	assert.ErrorIs(t, err, registry.ErrReservedIP)
	assert.Contains(t, err.Error(), "Error processing IP 10.0.0.1: ")

	// Nothing after the failing IP is attempted.
	assert.Equal(t, []string{"8.8.8.8", "10.0.0.1"}, r.calls)
	assert.Equal(t, 1, b.calls)
}

func TestRun_SearchFailureAborts(t *testing.T) {
	g := &fakeGatherer{err: errors.New("rate limited")}
	b := &fakeBackend{}
	o := New(newResolver(), g, classifier.New(b, logging.Discard()), logging.Discard())

	_, err := o.Run(context.Background(), []string{"9.9.9.9"})
	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "9.9.9.9", be.IP)
	assert.Zero(t, b.calls)
}

func TestRun_BackendFailureAborts(t *testing.T) {
	b := &fakeBackend{err: errors.New("connection reset")}
	o := New(newResolver(), &fakeGatherer{}, classifier.New(b, logging.Discard()), logging.Discard())

	_, err := o.Run(context.Background(), []string{"2.2.2.2", "3.3.3.3"})
	var bee *classifier.BackendError
	require.ErrorAs(t, err, &bee)
	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "2.2.2.2", be.IP)
}

func TestRun_UnparsableAnswerDoesNotAbort(t *testing.T) {
	b := &fakeBackend{reply: "Sure! Here is the JSON you asked for."}
	o := New(newResolver(), &fakeGatherer{}, classifier.New(b, logging.Discard()), logging.Discard())

	got, err := o.Run(context.Background(), []string{"5.6.7.8", "2.2.2.2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, res := range got {
		assert.Equal(t, classifier.FallbackVerdict.Explanation, res.VPNAnalysis)
		assert.False(t, res.IsVPN)
	}
	assert.Equal(t, model.NotAvailable, got[0].OrgName)
}

func TestRun_GoogleExample(t *testing.T) {
	r := &fakeResolver{profiles: map[string]model.OrgProfile{
		"8.8.8.8": {IP: "8.8.8.8", ASNDescription: "GOOGLE", OrgName: "Google LLC"},
	}}
	b := &fakeBackend{reply: `{"is_vpn": false, "explanation": "Google is not a VPN provider"}`}
	o := New(r, &fakeGatherer{}, classifier.New(b, logging.Discard()), logging.Discard())

	got, err := o.Run(context.Background(), []string{"8.8.8.8"})
	require.NoError(t, err)
	assert.Equal(t, []model.AnalysisResult{{
		IP:             "8.8.8.8",
		ASNDescription: "GOOGLE",
		OrgName:        "Google LLC",
		IsVPN:          false,
		VPNAnalysis:    "Google is not a VPN provider",
	}}, got)
}
