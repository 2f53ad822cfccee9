package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/hostmon/internal/config"
	"github.com/rileyhilliard/hostmon/internal/errors"
	"github.com/rileyhilliard/hostmon/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	configInitForce  bool
	configInitGlobal bool
)

// Prompt seams, replaced in tests.
var (
	stdinIsTerminal  = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	confirmOverwrite = promptOverwrite
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config",
	Long: `Write a config file with every key set to its default and a comment
explaining it.

The file goes to --config if given, ~/.config/hostmon/config.yaml with
--global, and ./.hostmon.yaml otherwise. An existing file is only replaced
after confirmation, or with --force.

Examples:
  hostmon config init
  hostmon config init --global
  hostmon config init --config ~/hostmon.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitCommand(cmd, rootFlags.ConfigPath, configInitGlobal, configInitForce)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config as YAML",
	Long: `Print the config hostmon would run with: the file it finds (or the
defaults), with command-line flags applied on top.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand(cmd)
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file without asking")
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write the per-user config instead of ./.hostmon.yaml")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// initTarget picks where config init writes.
func initTarget(explicit string, global bool) (string, error) {
	switch {
	case explicit != "":
		return config.ExpandTilde(explicit), nil
	case global:
		p := config.GlobalPath()
		if p == "" {
			return "", errors.New(errors.ErrConfig,
				"Can't work out your home directory",
				"Pass --config with an explicit path instead.")
		}
		return p, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}
	return filepath.Join(cwd, config.ConfigFileName), nil
}

func configInitCommand(cmd *cobra.Command, explicit string, global, force bool) error {
	path, err := initTarget(explicit, global)
	if err != nil {
		return err
	}

	overwrite := force
	if _, err := os.Stat(path); err == nil && !force {
		if !stdinIsTerminal() {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s already exists", path),
				"Pass --force to overwrite it.")
		}
		ok, err := confirmOverwrite(path)
		if err != nil || !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		overwrite = true
	}

	if err := config.WriteDefault(path, overwrite); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the config file",
			"Check the directory is writable.")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", ui.SymbolSuccess, path)
	return nil
}

func promptOverwrite(path string) (bool, error) {
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Overwrite %s?", path)).
				Description("The current file will be replaced with defaults").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}

func configShowCommand(cmd *cobra.Command) error {
	cfg, path, err := loadConfig(cmd, &rootFlags)
	if err != nil {
		return err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't render the config", "")
	}

	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "# No config file found; showing defaults.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "# Loaded from %s\n", path)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
