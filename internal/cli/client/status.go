package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// PageInfo is one indexed page in a ready session.
type PageInfo struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// StatusResponse represents the session status API response.
type StatusResponse struct {
	Status string     `json:"status"`
	Pages  []PageInfo `json:"pages,omitempty"`
}

// StatusCmd creates the status command.
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <session-id>",
		Short: "Show the state of an ingestion session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}

			status, err := fetchStatus(api, args[0])
			if err != nil {
				return err
			}

			return printStatus(args[0], status, outputJSON)
		},
	}

	return cmd
}

func fetchStatus(api *APIClient, sessionID string) (*StatusResponse, error) {
	resp, err := api.Get("/sessions/" + sessionID)
	if err != nil {
		return nil, err
	}

	var status StatusResponse
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}

	return &status, nil
}

func printStatus(sessionID string, status *StatusResponse, outputJSON bool) error {
	if outputJSON {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Session %s: %s\n", sessionID, status.Status)
	for _, page := range status.Pages {
		title := page.Title
		if title == "" {
			title = page.URL
		}
		fmt.Printf("  %s (%s)\n", title, page.URL)
	}

	return nil
}
