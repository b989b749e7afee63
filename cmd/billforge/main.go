// billforge turns legislative bills into AI-seeded public debates.
//
// It scrapes a bill page, generates a summary and arguments with an LLM,
// creates a Kialo discussion through browser automation, and publishes the
// result to a Webflow CMS collection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "billforge",
	Short: "billforge - bills in, debates out",
	Long: `billforge turns legislative bills into AI-seeded public debates.

  billforge serve                               Start the server
  billforge process <bill-url>                  Process a bill
  billforge list                                List runs
  billforge status <id>                         Check run status
  billforge events <id>                         Stream run events`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("BILLFORGE_SERVER", "http://localhost:7090"), "billforge server URL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
