package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCommand(d Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Manage chat sessions",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the chats of the current user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				chats, err := d.Chat.UserChatMenu(cmd.Context())
				if err != nil {
					return err
				}
				for _, c := range chats {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", c.ID, c.Title)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "create <message...>",
			Short: "Start a chat with a first message",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := d.Chat.CreateChat(cmd.Context(), 0, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", c.ID, c.Title)
				return nil
			},
		},
		&cobra.Command{
			Use:   "history <chat-id>",
			Short: "Print the messages of a chat",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseChatID(args[0])
				if err != nil {
					return err
				}
				h, err := d.Chat.MessagesHistory(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# %s (%s)\n", h.Title, h.CreateDate)
				for _, m := range h.Messages {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", m.Role, m.Content)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <chat-id>",
			Short: "Delete a chat",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseChatID(args[0])
				if err != nil {
					return err
				}
				msg, err := d.Chat.DeleteChat(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <chat-id> <title...>",
			Short: "Change the title of a chat",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseChatID(args[0])
				if err != nil {
					return err
				}
				msg, err := d.Chat.UpdateChatTitle(cmd.Context(), id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			},
		},
	)
	return cmd
}

func parseChatID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid chat id %q", s)
	}
	return id, nil
}
