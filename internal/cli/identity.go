package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Identity management commands",
	}

	cmd.AddCommand(newIdentityCreateCmd())
	cmd.AddCommand(newIdentityShowCmd())
	cmd.AddCommand(newIdentityGamesCmd())

	return cmd
}

func newIdentityCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a guest identity and store it locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"display_name": name}
			var result IdentityResult

			if err := client.Post("/api/v1/identity/guest", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveIdentity(Identity{
				PlayerID:    result.PlayerID,
				DisplayName: result.DisplayName,
			}); err != nil {
				return fmt.Errorf("failed to save identity: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newIdentityShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PlayerID == "" {
				return fmt.Errorf("no identity stored; run 'bingo identity create --name <name>'")
			}

			var result User
			if err := client.Get("/api/v1/users/"+cfg.PlayerID, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newIdentityGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List the stored identity's active games",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PlayerID == "" {
				return fmt.Errorf("no identity stored; run 'bingo identity create --name <name>'")
			}

			var result []GameSummary
			if err := client.Get("/api/v1/users/"+cfg.PlayerID+"/games", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(GameList(result))
			return nil
		},
	}
}
