package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Play session commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionAddPlayerCmd())
	cmd.AddCommand(newSessionEndCmd())
	cmd.AddCommand(newSessionRecordCmd())
	cmd.AddCommand(newSessionStatsCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var name, notes string
	var ranked, public bool
	var players []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new play session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":           name,
				"notes":          notes,
				"isRanked":       ranked,
				"isPublic":       public,
				"participantIds": players,
			}
			var result Session

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Session name")
	cmd.Flags().StringVar(&notes, "notes", "", "Session notes")
	cmd.Flags().BoolVar(&ranked, "ranked", false, "Ranked session (affects handicaps; forces public)")
	cmd.Flags().BoolVar(&public, "public", false, "Public session")
	cmd.Flags().StringSliceVar(&players, "player", nil, "Participant user id (repeatable)")

	return cmd
}

func newSessionListCmd() *cobra.Command {
	var includeEnded bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/sessions"
			if includeEnded {
				path += "?include_ended=true"
			}
			var result []Session

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeEnded, "all", false, "Include ended sessions")

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session with its games and players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionDetails

			if err := client.Get("/api/v1/sessions/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionAddPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-player <session-id> <user-id>",
		Short: "Add a player to an active session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"playerId": args[1]}

			if err := client.Post("/api/v1/sessions/"+args[0]+"/players", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Player added")
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a session permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/sessions/"+args[0]+"/end", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Session ended")
			return nil
		},
	}
}

func newSessionRecordCmd() *cobra.Command {
	var nertsPlayer string
	var noWinner bool

	cmd := &cobra.Command{
		Use:   "record <session-id> <user-id>:<score> [<user-id>:<score>...]",
		Short: "Record a game in a session",
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

			if err := client.Post("/api/v1/sessions/"+args[0]+"/games", req, &result); err != nil {
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

func newSessionStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <session-id>",
		Short: "Show per-player stats for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PlayerStats

			if err := client.Get("/api/v1/sessions/"+args[0]+"/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// parseScoreArgs parses user-id:score pairs from command arguments
func parseScoreArgs(args []string) ([]map[string]any, error) {
	scores := make([]map[string]any, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid score %q: expected <user-id>:<score>", arg)
		}
		score, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", arg, err)
		}
		scores = append(scores, map[string]any{
			"playerId": parts[0],
			"score":    score,
		})
	}
	return scores, nil
}
