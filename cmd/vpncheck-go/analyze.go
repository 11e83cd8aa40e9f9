package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/August26/vpncheck-go/internal/analytics"
	"github.com/August26/vpncheck-go/internal/output"
	"github.com/August26/vpncheck-go/internal/parser"
)

var (
	inputFile    string
	outputFile   string
	outputFormat string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ip ...]",
	Short: "Analyze IPs from arguments and/or a file and print a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ips := parser.NormalizeList(args)
		if inputFile != "" {
			fromFile, err := parser.LoadFromFile(inputFile)
			if err != nil {
				return err
			}
			ips = append(ips, fromFile...)
		}
		if len(ips) == 0 {
			return errors.New("no IP addresses given (pass them as arguments or with --input)")
		}

		comps, err := buildComponents(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer comps.Close()

		log.Info("ips loaded", "count", len(ips))

		start := time.Now()
		results, err := comps.orchestrator.Run(cmd.Context(), ips)
		if err != nil {
			return err
		}
		stats := analytics.Compute(results, time.Since(start))

		output.PrintResultsTable(os.Stdout, results)
		output.PrintSummary(os.Stdout, stats)

		if outputFile != "" {
			if err := output.WriteFile(outputFile, outputFormat, results, stats); err != nil {
				log.Error("failed to write output file", "err", err, "path", outputFile)
				return err
			}
			log.Info("results written",
				"path", outputFile,
				"format", outputFormat,
			)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&inputFile, "input", "", "path to file with one IP per line")
	analyzeCmd.Flags().StringVar(&outputFile, "output", "", "optional path to write results (json/csv)")
	analyzeCmd.Flags().StringVar(&outputFormat, "format", "json", "output format: json | csv")
}
