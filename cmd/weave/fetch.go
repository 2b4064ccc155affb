package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/weave-pm/weave/internal/domain/values"
)

func init() {
	var skipUpdate bool

	cmd := &cobra.Command{
		Use:   "fetch <specifier>",
		Short: "Materialize or update one repository",
		Long:  `Clones (or incrementally updates) the bare repository for the given local path or remote URL.`,
		Args:  cobra.ExactArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			spec, err := specifierFromArg(args[0])
			if err != nil {
				return fmt.Errorf("parse specifier: %w", err)
			}

			handle, details, err := ctx.Container.Facade().Fetch(ctx.Context, spec, skipUpdate)
			if err != nil {
				return fmt.Errorf("fetch failed: %w", err)
			}

			fmt.Printf("fetched %s (from cache: %v, cache updated: %v)\n", handle.Specifier, details.FromCache, details.UpdatedCache)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&skipUpdate, "skip-update", false, "reuse the cached clone without checking for upstream changes")
	addCommonFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func specifierFromArg(arg string) (values.RepositorySpecifier, error) {
	if looksLikeLocalPath(arg) {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return values.RepositorySpecifier{}, fmt.Errorf("resolve local path %q: %w", arg, err)
		}
		return values.NewLocalSpecifier(abs)
	}
	return values.NewRemoteSpecifier(arg)
}

func looksLikeLocalPath(arg string) bool {
	return len(arg) > 0 && (arg[0] == '/' || arg[0] == '.')
}
