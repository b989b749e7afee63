package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	processJurisdiction string
	processLanguage     string
)

var processCmd = &cobra.Command{
	Use:   "process [bill-url]",
	Short: "Process a bill into a published debate",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processJurisdiction, "jurisdiction", "FL", "Bill jurisdiction (FL or US)")
	processCmd.Flags().StringVar(&processLanguage, "language", "EN", "Generated text language code")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	payload, err := json.Marshal(map[string]string{
		"bill_url":     args[0],
		"jurisdiction": processJurisdiction,
		"language":     processLanguage,
	})
	if err != nil {
		return err
	}

	// The server holds the request open while the run executes, so give
	// the client plenty of room beyond the server's ack window.
	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Post(serverURL+"/api/runs", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("connecting to server: %w\nIs the server running? Start it with: billforge serve", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var run struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		DiscussionURL string `json:"discussion_url"`
		Error         string `json:"error"`
	}
	if err := json.Unmarshal(body, &run); err != nil {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, body)
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		fmt.Printf("✅ Run %s complete\n", run.ID)
		if run.DiscussionURL != "" {
			fmt.Printf("Discussion: %s\n", run.DiscussionURL)
		}
	case http.StatusAccepted:
		fmt.Printf("🔄 Run %s still processing\n", run.ID)
		fmt.Printf("Follow it with: billforge events %s\n", run.ID)
	default:
		if run.Error != "" {
			return fmt.Errorf("run %s failed: %s", run.ID, run.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, body)
	}
	return nil
}
