package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/lfg/internal/model"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby management commands",
	}

	cmd.AddCommand(newLobbyListCmd())
	cmd.AddCommand(newLobbyCreateCmd())
	cmd.AddCommand(newLobbyGetCmd())
	cmd.AddCommand(newLobbyJoinCmd())
	cmd.AddCommand(newLobbyLeaveCmd())
	cmd.AddCommand(newLobbyDeleteCmd())

	return cmd
}

func lobbyPath(name string, suffix ...string) string {
	return "/api/v1/lobbies/" + url.PathEscape(name) + strings.Join(suffix, "")
}

func newLobbyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lobbies with the action available to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyList

			if err := client.Get(cmd.Context(), "/api/v1/lobbies", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLobbyCreateCmd() *cobra.Command {
	var rating string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new lobby and take your role's slot as leader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			required, err := model.ParseRating(rating)
			if err != nil {
				return err
			}

			req := map[string]any{
				"name":            args[0],
				"required_rating": required,
			}
			var result Lobby

			if err := client.Post(cmd.Context(), "/api/v1/lobbies", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&rating, "rating", "0", "Required rating, 0-4000")

	return cmd
}

func newLobbyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Get lobby details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby

			if err := client.Get(cmd.Context(), lobbyPath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLobbyJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <name>",
		Short: "Join a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Lobby

			if err := client.Post(cmd.Context(), lobbyPath(args[0], "/join"), nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newLobbyLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <name>",
		Short: "Leave a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if err := client.Post(cmd.Context(), lobbyPath(name, "/leave"), nil, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Left lobby %s", name))
			return nil
		},
	}
}

func newLobbyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a lobby you lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if err := client.Delete(cmd.Context(), lobbyPath(name)); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted lobby %s", name))
			return nil
		},
	}
}
