package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/blockmark/internal/pages"
	"github.com/mithrel/blockmark/internal/present/format"
	"github.com/mithrel/blockmark/internal/ui"
	"github.com/mithrel/blockmark/internal/wire"
	"github.com/mithrel/blockmark/pkg/api"
)

func newShowCmd() *cobra.Command {
	var page string
	cmd := &cobra.Command{
		Use:   "show <source>",
		Short: "Preview a page in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			src, err := loadSource(cmd, app, args[0])
			if err != nil {
				return err
			}
			p, err := pages.ResolvePage(src.Table, page)
			if err != nil {
				return err
			}
			return previewPage(cmd, app, src, p)
		},
	}
	cmd.Flags().StringVarP(&page, "page", "p", "", "page id or title (default: first root page)")
	_ = cmd.RegisterFlagCompletionFunc("page", completePages)
	return cmd
}

// previewPage writes the summary box and the styled outline of p through
// the pager.
func previewPage(cmd *cobra.Command, app *wire.App, src source, p api.PageInfo) error {
	md := app.Renderer.Markdown(p.ID, src.Table)
	out := cmd.OutOrStdout()
	width := app.Cfg.GetInt("preview.width")
	if width == 0 {
		width = terminalWidth(out)
	}
	opts := format.PrettyOptions{Style: app.Cfg.GetString("preview.style"), Width: width}
	return withPager(cmd.Context(), out, cmd.ErrOrStderr(), func(w io.Writer) error {
		if _, err := io.WriteString(w, ui.FormatSummary(src.Name, src.Export, p)); err != nil {
			return err
		}
		return format.WritePrettyPage(w, md, opts)
	})
}
