package cli

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

func newContestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contest",
		Short: "Contest commands",
	}

	cmd.AddCommand(newContestCreateCmd())
	cmd.AddCommand(newContestGetCmd())
	cmd.AddCommand(newContestUpdateCmd())
	cmd.AddCommand(newContestRegisterCmd())
	cmd.AddCommand(newContestStandingsCmd())
	cmd.AddCommand(newContestPermissionsCmd())
	cmd.AddCommand(newContestParticipantCmd())

	return cmd
}

// parseTime accepts RFC 3339 timestamps
func parseTime(flag, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be an RFC 3339 time: %w", flag, err)
	}
	return t, nil
}

func newContestCreateCmd() *cobra.Command {
	var teamID, title, description, begin, end string
	var problems []string
	var private bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contest",
		RunE: func(cmd *cobra.Command, args []string) error {
			beginTime, err := parseTime("begin", begin)
			if err != nil {
				return err
			}
			endTime, err := parseTime("end", end)
			if err != nil {
				return err
			}

			req := map[string]any{
				"title":       title,
				"description": description,
				"private":     private,
				"begin_time":  beginTime,
				"end_time":    endTime,
				"problems":    problems,
			}
			var result Contest

			if err := client.Post("/api/v1/teams/"+teamID+"/contests", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "Owning team ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Contest title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Contest description")
	cmd.Flags().StringVar(&begin, "begin", "", "Begin time, RFC 3339 (required)")
	cmd.Flags().StringVar(&end, "end", "", "End time, RFC 3339 (required)")
	cmd.Flags().StringSliceVar(&problems, "problem", nil, "Problem ID, in contest order (repeatable)")
	cmd.Flags().BoolVar(&private, "private", false, "Restrict the contest to team members and participants")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("begin")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newContestGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <contest-id>",
		Short: "Show a contest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Contest

			if err := client.Get("/api/v1/contests/"+args[0], &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newContestUpdateCmd() *cobra.Command {
	var title, description, begin, end string
	var problems []string
	var private bool

	cmd := &cobra.Command{
		Use:   "update <contest-id>",
		Short: "Edit a contest; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			flags := cmd.Flags()
			if flags.Changed("title") {
				req["title"] = title
			}
			if flags.Changed("description") {
				req["description"] = description
			}
			if flags.Changed("private") {
				req["private"] = private
			}
			if flags.Changed("begin") {
				t, err := parseTime("begin", begin)
				if err != nil {
					return err
				}
				req["begin_time"] = t
			}
			if flags.Changed("end") {
				t, err := parseTime("end", end)
				if err != nil {
					return err
				}
				req["end_time"] = t
			}
			if flags.Changed("problem") {
				req["problems"] = problems
			}

			var result ContestUpdate
			if err := client.Patch("/api/v1/contests/"+args[0], req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Contest title")
	cmd.Flags().StringVar(&description, "description", "", "Contest description")
	cmd.Flags().StringVar(&begin, "begin", "", "Begin time, RFC 3339")
	cmd.Flags().StringVar(&end, "end", "", "End time, RFC 3339")
	cmd.Flags().StringSliceVar(&problems, "problem", nil, "Problem ID, in contest order (repeatable; replaces the list)")
	cmd.Flags().BoolVar(&private, "private", false, "Restrict the contest to team members and participants")

	return cmd
}

func newContestRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <contest-id>",
		Short: "Register the current user as a contestant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/contests/"+args[0]+"/register", nil, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Registered for contest " + args[0])
			return nil
		},
	}
}

func newContestStandingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <contest-id>",
		Short: "Show the contest scoreboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Standings

			if err := client.Get("/api/v1/contests/"+args[0]+"/standings", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newContestPermissionsCmd() *cobra.Command {
	var capabilities []string

	cmd := &cobra.Command{
		Use:   "permissions <contest-id>",
		Short: "Show which capabilities the current user holds in a contest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			for _, c := range capabilities {
				query.Add("capability", c)
			}
			path := "/api/v1/contests/" + args[0] + "/permissions"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}
			var result Permissions

			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&capabilities, "capability", nil, "Capability to check (repeatable; default all)")

	return cmd
}

func newContestParticipantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participant <contest-id> <user-id> <role>",
		Short: "Set a user's contest role (Mod, Jury, Contestant; empty string removes)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"role": args[2]}

			if err := client.Put("/api/v1/contests/"+args[0]+"/participants/"+args[1], req, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Participant updated")
			return nil
		},
	}
}
