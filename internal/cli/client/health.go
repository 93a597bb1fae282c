package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// HealthCmd creates the health command.
func HealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/health")
			if err != nil {
				return err
			}

			var health map[string]string
			if err := json.Unmarshal(resp.Data, &health); err != nil {
				return fmt.Errorf("failed to parse health response: %w", err)
			}

			fmt.Printf("%s (%s)\n", health["status"], health["service"])
			return nil
		},
	}
}
