package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/August26/vpncheck-go/internal/config"
	"github.com/August26/vpncheck-go/internal/logging"
	"github.com/August26/vpncheck-go/internal/model"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg model.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vpncheck-go",
	Short: "Classify IP addresses by whether their owner runs a VPN, relay or CDN",
	Long: `vpncheck-go looks up who holds each IP address (ASN + RDAP), searches the
web for the organization, and asks a language model whether it is a VPN,
private relay or CDN provider.

Run "serve" for the HTTP service or "analyze" for a one-off batch.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Verbose = true
		}
		cfg = loaded
		log = logging.NewLogger(cfg.Verbose, cfg.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Error("command failed", "err", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
