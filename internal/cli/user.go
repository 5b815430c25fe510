package cli

import (
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "League roster commands",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserListCmd())
	cmd.AddCommand(newUserShowCmd())
	cmd.AddCommand(newUserEditCmd())

	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var name, gamertag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a player to the league roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			if gamertag != "" {
				req["gamertag"] = gamertag
			}
			var result User

			if err := client.Post("/api/v1/users", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&gamertag, "gamertag", "", "Gamertag")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all league players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []User

			if err := client.Get("/api/v1/users", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a league player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get("/api/v1/users/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newUserEditCmd() *cobra.Command {
	var name, gamertag string

	cmd := &cobra.Command{
		Use:   "edit <user-id>",
		Short: "Edit a player's name or gamertag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if name != "" {
				req["name"] = name
			}
			if gamertag != "" {
				req["gamertag"] = gamertag
			}
			var result User

			if err := client.Patch("/api/v1/users/"+args[0], req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&gamertag, "gamertag", "", "New gamertag")

	return cmd
}
