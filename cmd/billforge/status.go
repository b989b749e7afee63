package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [run-id]",
	Short: "Get the status of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var eventsCmd = &cobra.Command{
	Use:   "events [run-id]",
	Short: "Stream run events",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	id := args[0]

	resp, err := http.Get(serverURL + "/api/runs/" + id)
	if err != nil {
		return fmt.Errorf("connecting to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}

	var run struct {
		ID            string `json:"id"`
		BillURL       string `json:"bill_url"`
		Jurisdiction  string `json:"jurisdiction"`
		Language      string `json:"language"`
		Status        string `json:"status"`
		DiscussionURL string `json:"discussion_url"`
		WebflowItemID string `json:"webflow_item_id"`
		Error         string `json:"error"`
		CreatedAt     string `json:"created_at"`
		UpdatedAt     string `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	fmt.Printf("Run:          %s\n", run.ID)
	fmt.Printf("Bill:         %s\n", run.BillURL)
	fmt.Printf("Jurisdiction: %s\n", run.Jurisdiction)
	fmt.Printf("Status:       %s\n", statusIcon(run.Status))
	fmt.Printf("Created:      %s\n", run.CreatedAt)
	fmt.Printf("Updated:      %s\n", run.UpdatedAt)
	if run.DiscussionURL != "" {
		fmt.Printf("Discussion:   %s\n", run.DiscussionURL)
	}
	if run.WebflowItemID != "" {
		fmt.Printf("CMS item:     %s\n", run.WebflowItemID)
	}
	if run.Error != "" {
		fmt.Printf("Error:        %s\n", run.Error)
	}

	return nil
}

func runEvents(cmd *cobra.Command, args []string) error {
	id := args[0]

	req, _ := http.NewRequest("GET", serverURL+"/api/runs/"+id+"/events", nil)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		var event struct {
			Type string `json:"type"`
			Data string `json:"data"`
		}
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}

		switch event.Type {
		case "status":
			fmt.Printf("\033[36m[status]\033[0m %s\n", event.Data)
		case "output":
			fmt.Println(event.Data)
		case "error":
			fmt.Fprintf(os.Stderr, "\033[31m[error]\033[0m %s\n", event.Data)
		case "done":
			fmt.Printf("\n\033[32m✓ Done:\033[0m %s\n", event.Data)
			return nil
		}
	}

	return scanner.Err()
}
