package model

// NotAvailable is reported for registry fields the lookup could not fill.
const NotAvailable = "N/A"

// OrgProfile is the registry view of a single IP address:
// who holds the allocation and which autonomous system announces it.
type OrgProfile struct {
	IP             string
	ASNDescription string
	OrgName        string
}

// Verdict is the classifier's answer for one organization.
type Verdict struct {
	IsVPN       bool
	Explanation string
}

// AnalysisResult is the merged per-IP record returned to callers.
type AnalysisResult struct {
	IP             string `json:"ip"`
	ASNDescription string `json:"asn_description"`
	OrgName        string `json:"org_name"`
	IsVPN          bool   `json:"is_vpn"`
	VPNAnalysis    string `json:"vpn_analysis"`
}

// NewAnalysisResult merges a profile and its verdict.
func NewAnalysisResult(p OrgProfile, v Verdict) AnalysisResult {
	return AnalysisResult{
		IP:             p.IP,
		ASNDescription: p.ASNDescription,
		OrgName:        p.OrgName,
		IsVPN:          v.IsVPN,
		VPNAnalysis:    v.Explanation,
	}
}

// AnalyzeRequest is the JSON body accepted by the programmatic entry point.
type AnalyzeRequest struct {
	IPAddresses []string `json:"ip_addresses"`
}

// AnalysisResponse wraps the ordered results of one batch.
type AnalysisResponse struct {
	Results []AnalysisResult `json:"results"`
}

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// BatchStats aggregates summary analytics for an entire run.
type BatchStats struct {
	TotalIPs              int     `json:"total_ips"`
	UniqueIPs             int     `json:"unique_ips"`
	VPNIPs                int     `json:"vpn_ips"`
	VPNRatePct            float64 `json:"vpn_rate_pct"`
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms"`
}
