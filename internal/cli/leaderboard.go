package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard [player-id]",
		Short: "Show the leaderboard, or a single player's entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if len(args) == 1 {
				var entry LeaderboardEntry
				if err := client.Get("/api/v1/leaderboard/"+args[0], &entry); err != nil {
					return err
				}
				out.Print(entry)
				return nil
			}

			var entries []LeaderboardEntry
			if err := client.Get(fmt.Sprintf("/api/v1/leaderboard?limit=%d", limit), &entries); err != nil {
				return err
			}
			out.Print(LeaderboardList(entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of entries to show")

	return cmd
}
