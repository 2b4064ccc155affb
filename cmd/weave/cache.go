package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the shared repository cache",
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove unreferenced clones from the shared cache",
		Args:  cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			if err := ctx.Container.Facade().PurgeCache(); err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}
			fmt.Println("cache purged")
			return nil
		}),
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every clone from the shared cache, referenced or not",
		Args:  cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			if err := ctx.Container.Facade().Reset(); err != nil {
				return fmt.Errorf("reset cache: %w", err)
			}
			fmt.Println("cache reset")
			return nil
		}),
	}

	addCommonFlags(cacheCmd)
	cacheCmd.AddCommand(purgeCmd, resetCmd)
	rootCmd.AddCommand(cacheCmd)
}
