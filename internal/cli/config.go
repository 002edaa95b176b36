package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"photogrid/internal/config"
)

func newConfigCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := config.NewConfigService(opts.ConfigPath, nil)
			if _, err := os.Stat(svc.Path()); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", svc.Path())
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := svc.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", svc.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after the .env file and environment variables are applied. The API key is masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := readConfig(opts, nil)
			if err != nil {
				return err
			}
			shown := *cfg
			shown.APIKey = maskKey(cfg.APIKey)

			data, err := toml.Marshal(&shown)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n%s", svc.Path(), data)
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(out, "# %v\n", err)
			}
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.NewConfigService(opts.ConfigPath, nil).Path())
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}

func maskKey(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 4:
		return "****"
	default:
		return key[:4] + "****"
	}
}
