package cli

import (
	"github.com/spf13/cobra"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Submission record commands",
	}

	cmd.AddCommand(newRecordGetCmd())
	cmd.AddCommand(newRecordVerdictCmd())

	return cmd
}

func newRecordGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <record-id>",
		Short: "Show a submission record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Record

			if err := client.Get("/api/v1/records/"+args[0], &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newRecordVerdictCmd() *cobra.Command {
	var score, timeMs, memoryKB int
	var message string

	cmd := &cobra.Command{
		Use:   "verdict <record-id> <verdict>",
		Short: "Report a judging result",
		Long: `Report a judging result for a record. Final verdicts cannot be changed.

Verdicts: Pending, Judging, Accepted, "Wrong Answer", "Time Limit Exceeded",
"Memory Limit Exceeded", "Runtime Error", "Compile Error", "System Error".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"verdict":   args[1],
				"score":     score,
				"time_ms":   timeMs,
				"memory_kb": memoryKB,
				"message":   message,
			}
			var result Record

			if err := client.Put("/api/v1/records/"+args[0]+"/verdict", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Score")
	cmd.Flags().IntVar(&timeMs, "time", 0, "Run time in milliseconds")
	cmd.Flags().IntVar(&memoryKB, "memory", 0, "Memory in KB")
	cmd.Flags().StringVar(&message, "message", "", "Judge message, e.g. compiler output")

	return cmd
}
