package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat room and private message commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomSendCmd())
	cmd.AddCommand(newRoomHistoryCmd())
	cmd.AddCommand(newPrivateMessageCmd())
	cmd.AddCommand(newPrivateHistoryCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var private bool

	cmd := &cobra.Command{
		Use:   "room-create <name>",
		Short: "Create a chat room and join it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"name": args[0], "private": private}
			var result Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&private, "private", false, "Only administrators may join")

	return cmd
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a chat room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/rooms/"+args[0]+"/join", nil, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Joined room " + args[0])
			return nil
		},
	}
}

func newRoomSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <room-id> <message...>",
		Short: "Post a message to a room",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"content": strings.Join(args[1:], " ")}
			var result ChatMessage

			if err := client.Post("/api/v1/rooms/"+args[0]+"/messages", req, &result); err != nil {
				return err
			}

			output(cmd).Print([]ChatMessage{result})
			return nil
		},
	}
}

func newRoomHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <room-id>",
		Short: "Show a room's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []ChatMessage

			if err := client.Get("/api/v1/rooms/"+args[0]+"/messages", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPrivateMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pm <user-id> <message...>",
		Short: "Send a private message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"content": strings.Join(args[1:], " ")}
			var result PrivateMessage

			if err := client.Post("/api/v1/users/"+args[0]+"/messages", req, &result); err != nil {
				return err
			}

			output(cmd).Print([]PrivateMessage{result})
			return nil
		},
	}
}

func newPrivateHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pm-history <user-id>",
		Short: "Show your private conversation with a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PrivateMessage

			if err := client.Get("/api/v1/users/"+args[0]+"/messages", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
