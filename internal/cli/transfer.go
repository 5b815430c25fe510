package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Bulk export and import of league history",
	}

	cmd.AddCommand(newTransferExportCmd())
	cmd.AddCommand(newTransferImportCmd())

	return cmd
}

func newTransferExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the league to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.GetRaw("/api/v1/export")
			if err != nil {
				return err
			}

			if file == "" {
				fmt.Print(string(data))
				return nil
			}

			if err := os.WriteFile(file, data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Exported to " + file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")

	return cmd
}

func newTransferImportCmd() *cobra.Command {
	var file, mode string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import league history from CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			req := map[string]string{
				"data": string(data),
				"mode": mode,
			}
			var result ImportResult

			if err := client.Post("/api/v1/import", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import (required)")
	cmd.Flags().StringVar(&mode, "mode", "append", "Import mode: append or overwrite")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
