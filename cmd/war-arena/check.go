package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/war-arena/config"
	"github.com/lixenwraith/war-arena/logging"
	"github.com/lixenwraith/war-arena/sandbox"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <bot>...",
		Short: "Compile and validate bot programs without running a match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			return runCheck(cmd.Context(), cfg, args, cmd.OutOrStdout(), logger)
		},
	}
}

// ErrCheckFailed reports that at least one bot failed validation
var ErrCheckFailed = errors.New("bot check failed")

func runCheck(ctx context.Context, cfg *config.Config, paths []string, out io.Writer, logger *slog.Logger) error {
	host := sandbox.NewHost(ctx, cfg.Sandbox, logger)
	defer host.Close(ctx)

	failed := 0
	for _, path := range paths {
		name := botName(path)
		code, err := os.ReadFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%-16s FAIL  %v\n", name, err)
			continue
		}
		m, err := host.Compile(ctx, name, code)
		if err != nil {
			failed++
			logger.Warn("bot rejected", "bot", name, "error", err)
			fmt.Fprintf(out, "%-16s FAIL  %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "%-16s OK    %s\n", name, m.Kind())
		m.Close(ctx)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCheckFailed, failed, len(paths))
	}
	return nil
}

// botName derives a player id from a bot file path
func botName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
