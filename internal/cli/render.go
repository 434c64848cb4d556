package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mithrel/blockmark/internal/pages"
	"github.com/mithrel/blockmark/internal/present/format"
	"github.com/mithrel/blockmark/internal/wire"
	"github.com/mithrel/blockmark/pkg/api"
	"github.com/mithrel/blockmark/pkg/models"
)

type renderOptions struct {
	page       string
	all        bool
	out        string
	fragment   bool
	stylesheet string
}

func newRenderCmd() *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render a page of an export file or stored export to HTML",
		Long: `Render a page to HTML. <source> is a path to an export JSON file or the
name of a stored export. Without --page the first root page is rendered.
With --all every page is written to the --out directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if !cmd.Flags().Changed("stylesheet") {
				o.stylesheet = app.Cfg.GetString("render.stylesheet")
			}
			src, err := loadSource(cmd, app, args[0])
			if err != nil {
				return err
			}
			if o.all {
				return renderAll(cmd, app, src, o)
			}
			return renderOne(cmd, app, src, o)
		},
	}
	cmd.Flags().StringVarP(&o.page, "page", "p", "", "page id or title (default: first root page)")
	cmd.Flags().BoolVar(&o.all, "all", false, "render every page into the --out directory")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "output file, or directory with --all (default: stdout)")
	cmd.Flags().BoolVar(&o.fragment, "fragment", false, "emit the bare fragment instead of a full document")
	cmd.Flags().StringVar(&o.stylesheet, "stylesheet", "", "stylesheet href for full documents (default: render.stylesheet)")
	_ = cmd.RegisterFlagCompletionFunc("page", completePages)
	return cmd
}

func renderOne(cmd *cobra.Command, app *wire.App, src source, o renderOptions) error {
	p, err := pages.ResolvePage(src.Table, o.page)
	if err != nil {
		return err
	}
	frag, err := pageFragment(cmd.Context(), app, src, p)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writePage(&buf, p, frag, o); err != nil {
		return err
	}
	if o.out == "" {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := writeFile(o.out, buf.Bytes()); err != nil {
		return err
	}
	app.Log.Info("rendered page", zap.String("page", p.ID), zap.String("out", o.out))
	return nil
}

// pageFragment renders p, going through the render cache for stored
// exports.
func pageFragment(ctx context.Context, app *wire.App, src source, p api.PageInfo) (string, error) {
	if !src.stored() {
		return app.Renderer.Render(p.ID, src.Table).String(), nil
	}
	_, frag, err := app.Pages.Fragment(ctx, src.Name, p.ID)
	return frag, err
}

func writePage(w io.Writer, p api.PageInfo, frag string, o renderOptions) error {
	if o.fragment {
		_, err := io.WriteString(w, frag+"\n")
		return err
	}
	return format.WriteHTMLDocument(w, format.DocumentOptions{Title: p.Title, Stylesheet: o.stylesheet}, frag)
}

// renderAll writes every page of src into o.out, render.workers at a time.
func renderAll(cmd *cobra.Command, app *wire.App, src source, o renderOptions) error {
	if o.out == "" {
		return fmt.Errorf("--all needs an --out directory")
	}
	if err := os.MkdirAll(o.out, 0o755); err != nil {
		return err
	}
	list := models.Pages(src.Table)
	names := pageFileNames(list)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, app.Cfg.GetInt("render.workers")))
	for i, p := range list {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frag, err := pageFragment(ctx, app, src, p)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := writePage(&buf, p, frag, o); err != nil {
				return fmt.Errorf("page %s: %w", p.ID, err)
			}
			return writeFile(filepath.Join(o.out, names[i]), buf.Bytes())
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d pages into %s\n", len(list), o.out)
	return nil
}

// pageFileNames derives unique file names from page titles, falling back
// to the page id for untitled pages.
func pageFileNames(list []api.PageInfo) []string {
	seen := make(map[string]int, len(list))
	out := make([]string, len(list))
	for i, p := range list {
		base := slug.Make(p.Title)
		if base == "" {
			base = slug.Make(p.ID)
		}
		if base == "" {
			base = "page"
		}
		seen[base]++
		if n := seen[base]; n > 1 {
			base += "-" + strconv.Itoa(n)
		}
		out[i] = base + ".html"
	}
	return out
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
