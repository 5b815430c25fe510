package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "League statistics commands",
	}

	cmd.AddCommand(newStatsCareerCmd())
	cmd.AddCommand(newStatsMeCmd())
	cmd.AddCommand(newStatsLeaderboardCmd())

	return cmd
}

func newStatsCareerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "career",
		Short: "Show career stats across all ranked sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PlayerStats

			if err := client.Get("/api/v1/stats/career", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatsMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your own career stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerStats

			if err := client.Get("/api/v1/stats/career/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatsLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the cumulative points leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []LeaderboardEntry

			if err := client.Get("/api/v1/leaderboard", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
