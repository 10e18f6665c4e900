package cli

import (
	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Ask the advisor which lobby to join",
		Long: `Ask the AI advisor to pick the best lobby for your role and rating.
Only lobbies you could join right now are considered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Suggestion

			if err := client.Get(cmd.Context(), "/api/v1/suggestions", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
