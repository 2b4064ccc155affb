package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/weave-pm/weave/internal/infrastructure/container"
)

// CommandContext provides common command dependencies, eliminating
// repetitive container initialization across CLI commands.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// addCommonFlags adds the per-subcommand flags every workspace
// operation needs, beyond the persistent root-command flags. Every
// flag withContainer reads is currently persistent on rootCmd, so
// this has nothing to add yet; kept as the hook subcommands needing
// their own flag are expected to call.
func addCommonFlags(cmd *cobra.Command) {}

// withContainer wraps a command handler with container initialization
// and teardown, matching the teacher's own command_helper.go pattern.
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		workingDir, _ := cmd.Flags().GetString("working-dir")
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		mirrors, _ := cmd.Flags().GetString("mirrors")
		registries, _ := cmd.Flags().GetString("registries")
		localMirrors, _ := cmd.Flags().GetString("local-mirrors")
		localRegistries, _ := cmd.Flags().GetString("local-registries")
		pluginCache, _ := cmd.Flags().GetString("plugin-cache")
		maxOps, _ := cmd.Flags().GetInt("max-ops")

		c, err := container.New(cmd.Context(), container.Options{
			Logger:               logger,
			WorkingDir:           workingDir,
			CacheDir:             cacheDir,
			PluginCache:          pluginCache,
			MaxOps:               maxOps,
			SharedMirrorsPath:    mirrors,
			SharedRegistriesPath: registries,
			LocalMirrorsPath:     localMirrors,
			LocalRegistriesPath:  localRegistries,
		})
		if err != nil {
			return fmt.Errorf("initialize workspace: %w", err)
		}
		defer c.Close(cmd.Context())

		ctx := &CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}

		return handler(ctx, cmd, args)
	}
}
