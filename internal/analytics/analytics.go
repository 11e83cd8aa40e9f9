package analytics

import (
	"time"

	"github.com/August26/vpncheck-go/internal/model"
)

// Compute summarizes a finished batch.
func Compute(results []model.AnalysisResult, duration time.Duration) model.BatchStats {
	stats := model.BatchStats{
		TotalIPs:              len(results),
		TotalProcessingTimeMs: duration.Milliseconds(),
	}

	seen := make(map[string]struct{})
	for _, r := range results {
		seen[r.IP] = struct{}{}
		if r.IsVPN {
			stats.VPNIPs++
		}
	}
	stats.UniqueIPs = len(seen)

	if stats.TotalIPs > 0 {
		stats.VPNRatePct = float64(stats.VPNIPs) / float64(stats.TotalIPs) * 100.0
	}
	return stats
}
