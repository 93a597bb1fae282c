package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// IngestRequest represents the ingest API request.
type IngestRequest struct {
	URL string `json:"url"`
}

// IngestResponse represents the ingest API response.
type IngestResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// IngestCmd creates the ingest command.
func IngestCmd() *cobra.Command {
	var (
		wait        bool
		waitTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ingest <url>",
		Short: "Crawl and index a website into a new session",
		Long:  "Starts a background crawl of the given site. The returned session ID scopes subsequent chats to that site's content.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runIngest(cmd, args[0], wait, waitTimeout, outputJSON)
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the session is ready")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 5*time.Minute, "Give up waiting after this long")

	return cmd
}

func runIngest(cmd *cobra.Command, url string, wait bool, waitTimeout time.Duration, outputJSON bool) error {
	api, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/ingest", IngestRequest{URL: url})
	if err != nil {
		return err
	}

	var ingestResp IngestResponse
	if err := json.Unmarshal(resp.Data, &ingestResp); err != nil {
		return fmt.Errorf("failed to parse ingest response: %w", err)
	}

	if !wait {
		if outputJSON {
			out, err := json.MarshalIndent(ingestResp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		fmt.Printf("Session %s started (status: %s)\n", ingestResp.SessionID, ingestResp.Status)
		fmt.Printf("Check progress with: wayfinder status %s\n", ingestResp.SessionID)
		return nil
	}

	deadline := time.Now().Add(waitTimeout)
	for {
		status, err := fetchStatus(api, ingestResp.SessionID)
		if err != nil {
			return err
		}

		switch status.Status {
		case "ready":
			return printStatus(ingestResp.SessionID, status, outputJSON)
		case "not_found":
			return fmt.Errorf("session %s disappeared: the crawl likely found no usable pages", ingestResp.SessionID)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for session %s", ingestResp.SessionID)
		}
		time.Sleep(2 * time.Second)
	}
}
