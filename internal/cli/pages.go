package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/blockmark/internal/present"
	"github.com/mithrel/blockmark/internal/present/tui"
	"github.com/mithrel/blockmark/internal/wire"
	"github.com/mithrel/blockmark/pkg/models"
)

func newPagesCmd() *cobra.Command {
	var (
		output    string
		noHeaders bool
	)
	cmd := &cobra.Command{
		Use:   "pages <source>",
		Short: "List the pages of an export file or stored export",
		Long: `List the pages of an export. With --output tui the pages open in an
interactive picker: enter previews the selected page, r prints it as an HTML
document. The picker needs a terminal; other outputs get the plain table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := parseOutput(output, !noHeaders)
			if err != nil {
				return err
			}
			src, err := loadSource(cmd, app, args[0])
			if err != nil {
				return err
			}
			if opts.Mode == present.ModeTUI && isTerminal(cmd.OutOrStdout()) {
				return pickPage(cmd, app, src, opts.Headers)
			}
			return present.RenderPages(cmd.OutOrStdout(), models.Pages(src.Table), opts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "plain", "output format: plain, pretty, json, ndjson, tui")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "omit the header row in plain and tui output")
	return cmd
}

func pickPage(cmd *cobra.Command, app *wire.App, src source, headers bool) error {
	out := cmd.OutOrStdout()
	sel, err := tui.PickPage(cmd.Context(), cmd.InOrStdin(), out, src.Name, models.Pages(src.Table), headers)
	if err != nil {
		return err
	}
	switch sel.Action {
	case tui.ActionShow:
		return previewPage(cmd, app, src, sel.Page)
	case tui.ActionRender:
		frag, err := pageFragment(cmd.Context(), app, src, sel.Page)
		if err != nil {
			return err
		}
		return writePage(out, sel.Page, frag, renderOptions{stylesheet: app.Cfg.GetString("render.stylesheet")})
	}
	return nil
}
