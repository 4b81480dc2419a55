package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"shortly/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every link as CSV to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := export.WriteCSV(ctx, cmd.OutOrStdout(), st.repo)
		if err != nil {
			return err
		}

		slog.InfoContext(ctx, "export finished", "rows", n)
		return nil
	},
}
