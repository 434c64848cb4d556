package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/blockmark/internal/present"
)

func newExportsCmd() *cobra.Command {
	var (
		output    string
		noHeaders bool
	)
	cmd := &cobra.Command{
		Use:     "exports",
		Aliases: []string{"ls"},
		Short:   "List stored exports",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := parseOutput(output, !noHeaders)
			if err != nil {
				return err
			}
			list, err := app.Pages.Exports(cmd.Context())
			if err != nil {
				return err
			}
			return present.RenderExports(cmd.OutOrStdout(), list, opts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "plain", "output format: plain, pretty, json, ndjson")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "omit the header row in plain output")
	cmd.AddCommand(newExportsDeleteCmd())
	return cmd
}

func newExportsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "delete <name>...",
		Aliases:           []string{"rm"},
		Short:             "Delete stored exports and their cached renders",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeExports,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			for _, name := range args {
				if err := app.Pages.Delete(cmd.Context(), name); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
			}
			return nil
		},
	}
	return cmd
}
