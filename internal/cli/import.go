package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store an export file under a name",
		Long: `Store an export JSON file so it can be rendered by name and served over
HTTP. Importing under an existing name replaces the stored export and drops
its cached renders when the content changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			info, err := app.Pages.Import(cmd.Context(), name, payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d pages, %s)\n", info.Name, info.Pages, shortHash(info.Hash))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name to store the export under (default: file name without extension)")
	return cmd
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
