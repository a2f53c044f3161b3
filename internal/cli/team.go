package cli

import (
	"github.com/spf13/cobra"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Team commands",
	}

	cmd.AddCommand(newTeamCreateCmd())
	cmd.AddCommand(newTeamGetCmd())
	cmd.AddCommand(newTeamMemberCmd())

	return cmd
}

func newTeamCreateCmd() *cobra.Command {
	var name string
	var private bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a team owned by the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"name": name, "private": private}
			var result Team

			if err := client.Post("/api/v1/teams", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Team name (required)")
	cmd.Flags().BoolVar(&private, "private", false, "Hide the team from non-members")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTeamGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <team-id>",
		Short: "Show a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Team

			if err := client.Get("/api/v1/teams/"+args[0], &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTeamMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "member <team-id> <user-id> <role>",
		Short: "Set a member's team role (Owner, Admin, Member; empty string removes)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"role": args[2]}

			if err := client.Put("/api/v1/teams/"+args[0]+"/members/"+args[1], req, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Member updated")
			return nil
		},
	}
}

func newProblemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problem",
		Short: "Problem commands",
	}

	cmd.AddCommand(newProblemCreateCmd())
	cmd.AddCommand(newProblemGetCmd())

	return cmd
}

func newProblemCreateCmd() *cobra.Command {
	var teamID, title string
	var private, allowSubmit bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a problem to a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"title":        title,
				"private":      private,
				"allow_submit": allowSubmit,
			}
			var result Problem

			if err := client.Post("/api/v1/teams/"+teamID+"/problems", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "Owning team ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Problem title (required)")
	cmd.Flags().BoolVar(&private, "private", false, "Restrict the problem to team members and contests")
	cmd.Flags().BoolVar(&allowSubmit, "allow-submit", false, "Accept practice submissions outside contests")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newProblemGetCmd() *cobra.Command {
	var contestID string

	cmd := &cobra.Command{
		Use:   "get <problem-id>",
		Short: "Show a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/problems/" + args[0]
			if contestID != "" {
				path += "?contest_id=" + contestID
			}
			var result Problem

			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&contestID, "contest", "", "View the problem through this contest")

	return cmd
}
