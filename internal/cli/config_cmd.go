package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/peacecards/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigCheckCmd())
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite bool
	var update bool
	var yes bool
	cmd := &cobra.Command{
		Use:         "generate",
		Short:       "Generate a default config.toml",
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = configPath(cmd)
			}
			if overwrite && update {
				return fmt.Errorf("choose either --overwrite or --update")
			}
			if _, err := os.Stat(out); err == nil && overwrite {
				if err := confirmOverwrite(out, yes); err != nil {
					return err
				}
			}
			return generateConfig(cmd.OutOrStdout(), out, overwrite, update)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing config (creates a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "merge defaults into existing config (creates a backup)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the overwrite confirmation")
	return cmd
}

func confirmOverwrite(path string, yes bool) error {
	if yes {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Replace "+path+" with defaults?").
				Description("The current file is kept as a backup.").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "check",
		Short:       "Validate the resolved configuration",
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := getViper(cmd)
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}
			path := v.ConfigFileUsed()
			if path == "" {
				path = "(defaults only)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config OK: %s\n", path)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "set <key> <value>",
		Short:       "Set one option in config.toml",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{skipApp: "true"},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var keys []string
			for _, o := range config.GetConfigOptions() {
				keys = append(keys, o.Key+"\t"+o.Comment)
			}
			return keys, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)
			data, err := os.ReadFile(path)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			updated, err := config.SetOption(string(data), args[0], args[1])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
			return nil
		},
	}
}

// generateConfig writes the default config to path. An existing file is
// only replaced or merged when asked, and its old contents are backed up.
func generateConfig(w io.Writer, path string, overwrite, update bool) error {
	old, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if exists && !overwrite && !update {
		return fmt.Errorf("%s already exists; pass --overwrite to replace it or --update to add missing defaults", path)
	}

	next := config.RenderDefaultTOML()
	if exists && update {
		merged, changed := config.UpdateTOML(string(old))
		if !changed {
			_, _ = fmt.Fprintf(w, "Config already up to date: %s\n", path)
			return nil
		}
		next = merged
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	var backup string
	if exists {
		if backup, err = writeBackup(path, old); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(next), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	if backup != "" {
		_, _ = fmt.Fprintf(w, "Backup: %s\n", backup)
	}
	return nil
}

// writeBackup stores data next to path as .bak, or a timestamped .bak when
// one already exists.
func writeBackup(path string, data []byte) (string, error) {
	backup := path + ".bak"
	if _, err := os.Stat(backup); err == nil {
		backup = path + ".bak-" + time.Now().Format("20060102-150405")
	}
	return backup, os.WriteFile(backup, data, 0o600)
}
