package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/war-arena/config"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "war-arena",
		Short: "Deterministic arena combat between sandboxed bots",
		Long: `war-arena loads bot programs (WebAssembly or Lua), places each one in a
rectangular arena and steps a fixed-cycle simulation until one bot is left
standing or the cycle limit is reached.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, trace, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newCheckCmd(),
		newRunCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "war-arena version %s\n", version)
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// loadConfig resolves defaults, file, environment and then any flags the
// command defines and the user set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if f := flags.Lookup("cycles"); f != nil && f.Changed {
		cfg.Game.MaxCycles, _ = flags.GetUint64("cycles")
	}
	if f := flags.Lookup("seed"); f != nil && f.Changed {
		cfg.Arena.Seed, _ = flags.GetInt64("seed")
	}
	if f := flags.Lookup("join-timeout"); f != nil && f.Changed {
		cfg.Game.JoinTimeout, _ = flags.GetDuration("join-timeout")
	}
	if f := flags.Lookup("exclude-failed"); f != nil && f.Changed {
		if exclude, _ := flags.GetBool("exclude-failed"); exclude {
			cfg.Game.LoadFailure = config.LoadExclude
		} else {
			cfg.Game.LoadFailure = config.LoadAbort
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
