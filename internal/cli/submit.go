package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var contestID, language, file string

	cmd := &cobra.Command{
		Use:   "submit <problem-id>",
		Short: "Submit a solution",
		Long: `Submit source code for a problem, either as practice or within a contest.

Use --file - to read the source from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readSource(cmd, file)
			if err != nil {
				return err
			}

			req := map[string]string{
				"contest_id": contestID,
				"language":   language,
				"code":       code,
			}
			var result Record

			if err := client.Post("/api/v1/problems/"+args[0]+"/submissions", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&contestID, "contest", "", "Submit within this contest")
	cmd.Flags().StringVar(&language, "lang", "", "Source language (required)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Source file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("lang")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open source: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}
