package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/painel/internal/config"
	"github.com/felixgeelhaar/painel/internal/log"
	"github.com/felixgeelhaar/painel/internal/ux"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit the painel configuration",
		Long: `Manage the configuration stored at ~/.painel/config.yaml (override with
--config or PAINEL_CONFIG).

Examples:
  # Create the file with the defaults
  painel config init

  # Point the client at another server
  painel config set api.base_url https://painel.example.com/api

  # Show the effective configuration
  painel config view
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	configCmd.AddCommand(
		newConfigViewCmd(),
		newConfigPathCmd(),
		newConfigInitCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)
	return configCmd
}

// configText renders the configuration as YAML in text mode
type configText struct {
	cfg *config.Config
}

func (c configText) String() string {
	data, err := yaml.Marshal(c.cfg)
	if err != nil {
		return fmt.Sprintf("failed to marshal config: %v", err)
	}
	return string(data)
}

func newConfigViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cfg, _, err := cctx.loadConfig()
			if err != nil {
				return err
			}

			shown := *cfg
			if shown.Storage.Redis.Password != "" {
				shown.Storage.Redis.Password = log.Mask(shown.Storage.Redis.Password)
			}

			if cctx.Format == "" || cctx.Format == "text" {
				return printFormatted(cmd.OutOrStdout(), cctx, configText{&shown})
			}
			return printFormatted(cmd.OutOrStdout(), cctx, &shown)
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			path, err := cctx.resolveConfigPath()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), "(file does not exist, run 'painel config init' to create it)")
			}
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			path, err := cctx.resolveConfigPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			ux.Success(cmd.OutOrStdout(), cctx.NoColor, "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long:  `Print one setting using dot notation (e.g. api.base_url, storage.backend, poll.interval).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cfg, _, err := cctx.loadConfig()
			if err != nil {
				return err
			}

			value, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  `Change one setting using dot notation (e.g. api.base_url https://painel.example.com/api).`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			path, err := cctx.resolveConfigPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			ux.Success(cmd.OutOrStdout(), cctx.NoColor, "Set %s = %s", args[0], args[1])
			return nil
		},
	}
}
