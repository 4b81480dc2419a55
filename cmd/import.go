package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"shortly/internal/importer"
	"shortly/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import link history from a JSON export",
	Long: `Import reads a legacy link history document of the form
{"data": {"link_history": [...]}} from file, or from stdin when file is
omitted or "-". Entries whose slug is already stored are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		workers, _ := cmd.Flags().GetInt("workers")
		links := service.NewLinkService(st.repo, service.NewSlugService(st.repo), nil, service.LinkServiceConfig{
			CreatedBy: cfg.CreatedBy,
		})

		res, err := importer.New(links, cfg.CreatedBy, workers).Import(ctx, in)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, skipped %d, failed %d\n", res.Imported, res.Skipped, res.Failed)
		return nil
	},
}

func init() {
	importCmd.Flags().IntP("workers", "w", 4, "Entries validated in parallel")
}
