package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ChatRequest represents the chat API request.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatSource is one cited source in a chat answer.
type ChatSource struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// ChatResponse represents the chat API response.
type ChatResponse struct {
	Reply   string       `json:"reply"`
	Sources []ChatSource `json:"sources"`
}

// ChatCmd creates the chat command.
func ChatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the support chatbot a question",
		Long:  "Sends a question to the chatbot. With --session, answers are grounded in that session's crawled site instead of the default corpus.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runChat(cmd, args[0], sessionID, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID from a previous ingest")

	return cmd
}

func runChat(cmd *cobra.Command, message, sessionID string, outputJSON bool) error {
	api, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/chat", ChatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return err
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(resp.Data, &chatResp); err != nil {
		return fmt.Errorf("failed to parse chat response: %w", err)
	}

	if outputJSON {
		out, err := json.MarshalIndent(chatResp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(chatResp.Reply)
	if len(chatResp.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range chatResp.Sources {
			fmt.Printf("  [%s] %s - %s (%.3f)\n", src.ID, src.Title, src.URL, src.Score)
		}
	}

	return nil
}
