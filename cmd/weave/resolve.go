package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weave-pm/weave/internal/domain/entities"
)

func init() {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve root manifests against the dependency graph",
		Long:  `Runs the resolution oracle against the given root manifests and writes Package.resolved.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			var roots []entities.Manifest
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read manifest %s: %w", path, err)
				}
				m, err := ctx.Container.Facade().ManifestLoader.Load(ctx.Context, raw, path)
				if err != nil {
					return fmt.Errorf("load manifest %s: %w", path, err)
				}
				roots = append(roots, m)
			}

			pins, err := ctx.Container.Facade().Resolve(ctx.Context, roots)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}

			fmt.Printf("resolved %d package(s)\n", len(pins.Pins))
			for _, pin := range pins.Pins {
				fmt.Printf("  %s -> %s\n", pin.PackageRef.Identity, pin.State.Revision)
			}
			return nil
		}),
	}
	addCommonFlags(cmd)
	rootCmd.AddCommand(cmd)
}
