package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/blockmark/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage configuration",
		Annotations: map[string]string{"app": "none"},
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

type generateMode int

const (
	generateCreate generateMode = iota
	generateOverwrite
	generateUpdate
)

func newConfigGenerateCmd() *cobra.Command {
	var (
		out               string
		overwrite, update bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a commented config.toml with every option and its default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = configPath(cmd)
			}
			mode := generateCreate
			switch {
			case overwrite && update:
				return errors.New("choose either --overwrite or --update")
			case overwrite:
				mode = generateOverwrite
			case update:
				mode = generateUpdate
			}
			return generateConfig(cmd.OutOrStdout(), out, mode)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default: --config or the user config dir)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing config (keeps a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "add missing options to an existing config (keeps a backup)")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print every option with its effective value after applying defaults, the
config file and BLOCKMARK_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if p, _ := cmd.Flags().GetString("config"); p != "" {
				v.SetConfigFile(p)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return writeEffectiveConfig(cmd.OutOrStdout(), v)
		},
	}
}

// configPath is the file named by --config, else the default location.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

func writeEffectiveConfig(w io.Writer, v *viper.Viper) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	file := v.ConfigFileUsed()
	if file == "" {
		file = "(none)"
	}
	_, _ = fmt.Fprintf(tw, "# file: %s\n", file)
	for _, o := range config.GetConfigOptions() {
		_, _ = fmt.Fprintf(tw, "%s\t%v\n", o.Key, v.Get(o.Key))
	}
	return tw.Flush()
}

func generateConfig(w io.Writer, path string, mode generateMode) error {
	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if exists && mode == generateCreate {
		return fmt.Errorf("config already exists at %s; use --overwrite to replace it or --update to add missing options", path)
	}

	content := config.RenderDefaultTOML()
	if exists && mode == generateUpdate {
		updated, changed := config.UpdateTOML(string(existing))
		if !changed {
			_, _ = fmt.Fprintf(w, "Config already up to date: %s\n", path)
			return nil
		}
		content = updated
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if exists {
		backup, err := writeBackup(path, existing)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "Backup: %s\n", backup)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// writeBackup stores data next to path as path.bak, or a timestamped name
// when that is taken.
func writeBackup(path string, data []byte) (string, error) {
	backup := path + ".bak"
	if _, err := os.Stat(backup); err == nil {
		backup = fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	}
	if err := os.WriteFile(backup, data, 0o600); err != nil {
		return "", err
	}
	return backup, nil
}
