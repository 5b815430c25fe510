package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game history commands",
	}

	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameRecordCmd())
	cmd.AddCommand(newGameUpdateCmd())

	return cmd
}

func newGameListCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded games",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games"
			if playerID != "" {
				path += "?player_id=" + playerID
			}
			var result []Game

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Only games involving this user id")

	return cmd
}

func newGameRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <user-id>:<score> [<user-id>:<score>...]",
		Short: "Record a standalone game outside any session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := parseScoreArgs(args)
			if err != nil {
				return err
			}

			req := map[string]any{"scores": scores}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameUpdateCmd() *cobra.Command {
	var nertsPlayer string
	var noWinner bool

	cmd := &cobra.Command{
		Use:   "update <game-id> <user-id>:<score> [<user-id>:<score>...]",
		Short: "Correct a session game's recorded scores",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := parseScoreArgs(args[1:])
			if err != nil {
				return err
			}

			req := map[string]any{
				"scores":   scores,
				"noWinner": noWinner,
			}
			if nertsPlayer != "" {
				req["nertsPlayerId"] = nertsPlayer
			}
			var result Game

			if err := client.Patch("/api/v1/games/"+args[0], req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&nertsPlayer, "nerts", "", "User id of the player who reached Nerts")
	cmd.Flags().BoolVar(&noWinner, "no-winner", false, "Record the game with no winner")

	return cmd
}
