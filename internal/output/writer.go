package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/August26/vpncheck-go/internal/model"
)

// PrintResultsTable prints a human-readable table of per-IP verdicts.
func PrintResultsTable(w io.Writer, results []model.AnalysisResult) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "IP\tORG\tASN DESCRIPTION\tVPN\tANALYSIS")

	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.IP,
			dashIfEmpty(r.OrgName),
			dashIfEmpty(r.ASNDescription),
			boolToYN(r.IsVPN),
			dashIfEmpty(r.VPNAnalysis),
		)
	}

	tw.Flush()
}

// PrintSummary prints the aggregated batch stats.
func PrintSummary(w io.Writer, stats model.BatchStats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Total IPs:     %d\n", stats.TotalIPs)
	fmt.Fprintf(w, "  Unique IPs:    %d\n", stats.UniqueIPs)
	fmt.Fprintf(w, "  VPN IPs:       %d\n", stats.VPNIPs)
	fmt.Fprintf(w, "  VPN rate:      %.1f %%\n", stats.VPNRatePct)
	fmt.Fprintf(w, "  Batch time:    %.2f s\n", float64(stats.TotalProcessingTimeMs)/1000.0)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

// WriteFile writes all results + summary stats to a file in json or csv format.
func WriteFile(path string, format string, results []model.AnalysisResult, stats model.BatchStats) error {
	switch format {
	case "json", "csv":
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if format == "json" {
		return writeJSON(f, results, stats)
	}
	return writeCSV(f, results)
}

// writeJSON writes an object with "results" and "summary".
func writeJSON(w io.Writer, results []model.AnalysisResult, stats model.BatchStats) error {
	payload := struct {
		Results []model.AnalysisResult `json:"results"`
		Summary model.BatchStats       `json:"summary"`
	}{
		Results: results,
		Summary: stats,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// writeCSV writes one row per IP; the summary has no place in CSV.
func writeCSV(w io.Writer, results []model.AnalysisResult) error {
	cw := csv.NewWriter(w)

	header := []string{"ip", "asn_description", "org_name", "is_vpn", "vpn_analysis"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.IP,
			r.ASNDescription,
			r.OrgName,
			strconv.FormatBool(r.IsVPN),
			r.VPNAnalysis,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
