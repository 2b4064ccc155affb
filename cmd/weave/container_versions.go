package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weave-pm/weave/internal/domain/values"
)

func init() {
	var includeYanked bool

	containerCmd := &cobra.Command{
		Use:   "container",
		Short: "Inspect package containers",
	}

	versionsCmd := &cobra.Command{
		Use:   "versions <ref>",
		Short: "List admitted versions for a package reference",
		Long:  `Lists the descending, admitted version sequence the container provider exposes for a local path or remote source-control URL.`,
		Args:  cobra.ExactArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			ref, err := referenceFromArg(args[0])
			if err != nil {
				return fmt.Errorf("parse reference: %w", err)
			}

			versions, err := ctx.Container.Facade().ContainerVersions(ctx.Context, ref, includeYanked)
			if err != nil {
				return fmt.Errorf("list versions: %w", err)
			}

			for _, v := range versions {
				fmt.Println(v.Canonical())
			}
			return nil
		}),
	}
	versionsCmd.Flags().BoolVar(&includeYanked, "include-yanked", false, "include yanked versions in the listing")

	addCommonFlags(containerCmd)
	containerCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(containerCmd)
}

func referenceFromArg(arg string) (values.PackageReference, error) {
	identity, err := values.NewPackageIdentityFromLocation(arg)
	if err != nil {
		return values.PackageReference{}, err
	}

	kind := values.KindRemoteSourceControl
	if looksLikeLocalPath(arg) {
		kind = values.KindLocalSourceControl
	}

	return values.NewPackageReference(identity, kind, arg)
}
