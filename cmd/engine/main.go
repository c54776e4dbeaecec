package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dataDir string
)

func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if v := os.Getenv("APPTRACK_DATA_DIR"); v != "" {
		return v
	}
	return "."
}

func main() {
	// Optional .env for local development (APPTRACK_IMAP_PASSWORD etc).
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "engine",
		Short: "Application tracker engine",
		Long: `Engine tracks internship and job applications. It watches a mailbox for
application confirmation emails, parses company/title/job-id out of them
with a rule-based pipeline, and serves the tracked applications over a
local HTTP API.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <data-dir>/config.yml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default is $APPTRACK_DATA_DIR or .)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local API server",
		Long: `Start the local HTTP API with the mailbox poller and retention cleanup
running in the background. The server binds to loopback only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (0 = use config)")

	return cmd
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one mailbox ingest pass and exit",
		Long:  "Scan the configured mailboxes for unseen confirmation emails, store matches, and exit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestOnce()
		},
	}
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tracked applications as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")

	return cmd
}
