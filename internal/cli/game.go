package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameRecentCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGamePlayersCmd())
	cmd.AddCommand(newGameBoardCmd())
	cmd.AddCommand(newGameToggleCmd())
	cmd.AddCommand(newGameClaimCmd())
	cmd.AddCommand(newGameUnclaimCmd())
	cmd.AddCommand(newGameBingoCmd())
	cmd.AddCommand(newGameLinkCmd())

	return cmd
}

// readPhraseFile reads one phrase per line, skipping blanks
func readPhraseFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read phrase file: %w", err)
	}

	var phrases []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			phrases = append(phrases, line)
		}
	}
	return phrases, nil
}

func newGameCreateCmd() *cobra.Command {
	var commonFile, rareFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game from phrase files",
		RunE: func(cmd *cobra.Command, args []string) error {
			common, err := readPhraseFile(commonFile)
			if err != nil {
				return err
			}
			rare, err := readPhraseFile(rareFile)
			if err != nil {
				return err
			}

			req := map[string][]string{
				"common_phrases": common,
				"rare_phrases":   rare,
			}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&commonFile, "common", "", "File with common phrases, one per line (required)")
	cmd.Flags().StringVar(&rareFile, "rare", "", "File with rare phrases, one per line (required)")
	_ = cmd.MarkFlagRequired("common")
	_ = cmd.MarkFlagRequired("rare")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Get("/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []GameSummary
			if err := client.Get(fmt.Sprintf("/api/v1/games?limit=%d", limit), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(GameList(result))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of games to list")

	return cmd
}

func newGameJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			var result Player

			if err := client.Post("/api/v1/games/"+args[0]+"/join", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name in the game (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGamePlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players <game-id>",
		Short: "List the game's players and scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Player
			if err := client.Get("/api/v1/games/"+args[0]+"/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(PlayerList(result))
			return nil
		},
	}
}

func newGameBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <game-id>",
		Short: "Show your board in a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PlayerID == "" {
				return fmt.Errorf("no identity stored; run 'bingo identity create --name <name>'")
			}

			var result Player
			if err := client.Get("/api/v1/games/"+args[0]+"/players/"+cfg.PlayerID, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <game-id> <row> <col>",
		Short: "Toggle a cell on your board",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid row: %w", err)
			}
			col, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid col: %w", err)
			}

			req := map[string]int{"row": row, "col": col}
			var result Player

			if err := client.Post("/api/v1/games/"+args[0]+"/toggle", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <game-id> <index>",
		Short: "Claim a rare phrase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index: %w", err)
			}

			var result ClaimResult
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/rare/%d/claim", args[0], index), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameUnclaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unclaim <game-id> <index>",
		Short: "Release a rare phrase you claimed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index: %w", err)
			}

			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s/rare/%d/claim", args[0], index)); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Phrase released")
			return nil
		},
	}
}

func newGameBingoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bingo <game-id>",
		Short: "Call bingo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BingoResult
			if err := client.Post("/api/v1/games/"+args[0]+"/bingo", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <game-id>",
		Short: "Show the game's join link and QR code URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinLink
			if err := client.Get("/api/v1/games/"+args[0]+"/link", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
