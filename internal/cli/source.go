package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/blockmark/internal/config"
	"github.com/mithrel/blockmark/internal/db"
	"github.com/mithrel/blockmark/internal/export"
	"github.com/mithrel/blockmark/internal/present"
	"github.com/mithrel/blockmark/internal/util"
	"github.com/mithrel/blockmark/internal/wire"
	"github.com/mithrel/blockmark/pkg/api"
	"github.com/mithrel/blockmark/pkg/models"
)

// source is an export named on the command line: a JSON file on disk or
// the name of a stored export.
type source struct {
	Name   string
	Table  models.Table
	Export *api.ExportInfo // nil for files
}

func (s source) stored() bool { return s.Export != nil }

// loadApp loads configuration (honoring --config) and wires the app.
func loadApp(cmd *cobra.Command) (*wire.App, error) {
	v := viper.New()
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		v.SetConfigFile(p)
	}
	if err := config.Load(cmd.Context(), v); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return wire.BuildApp(cmd.Context(), v)
}

// loadSource prefers an existing file over a stored export of the same
// name.
func loadSource(cmd *cobra.Command, app *wire.App, arg string) (source, error) {
	if fi, err := os.Stat(arg); err == nil && !fi.IsDir() {
		f, err := os.Open(arg)
		if err != nil {
			return source{}, err
		}
		defer f.Close()
		table, err := export.Decode(f)
		if err != nil {
			return source{}, fmt.Errorf("%s: %w", arg, err)
		}
		return source{Name: arg, Table: table}, nil
	}
	table, e, err := app.Pages.Table(cmd.Context(), arg)
	if errors.Is(err, db.ErrNotFound) {
		return source{}, fmt.Errorf("no export file or stored export named %q", arg)
	}
	if err != nil {
		return source{}, err
	}
	info := e.Info()
	return source{Name: arg, Table: table, Export: &info}, nil
}

func parseOutput(s string, headers bool) (present.Options, error) {
	mode, ok := present.ParseMode(strings.ToLower(s))
	if !ok {
		return present.Options{}, fmt.Errorf("unknown output %q (want plain, pretty, json, ndjson or tui)", s)
	}
	return present.Options{Mode: mode, Headers: headers, JSONIndent: mode == present.ModeJSON}, nil
}

// completePages completes --page with titles of the source named by the
// first argument. Completion runs without the pre-run hooks, so the app is
// loaded here.
func completePages(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	app, err := loadApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer app.Close()
	src, err := loadSource(cmd, app, args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var titles []string
	for _, p := range models.Pages(src.Table) {
		if p.Title != "" {
			titles = append(titles, p.Title)
		}
	}
	return util.ScoreCompletions(toComplete, titles, 20), cobra.ShellCompDirectiveNoFileComp
}

// completeExports completes stored export names.
func completeExports(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	app, err := loadApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer app.Close()
	list, err := app.Pages.Exports(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name)
	}
	return util.ScoreCompletions(toComplete, names, 0), cobra.ShellCompDirectiveNoFileComp
}
