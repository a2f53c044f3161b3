package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long:  "Check server health. Exits non-zero when the judge is degraded, e.g. its storage is unreachable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			status, err := client.GetStatus("/api/v1/health", &result)
			if err != nil {
				return err
			}

			output(cmd).Print(result)
			if result.Status != "ok" {
				return fmt.Errorf("judge is %s (HTTP %d): storage %s", result.Status, status, result.Storage)
			}
			return nil
		},
	}
}
