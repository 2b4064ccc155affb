package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/weave-pm/weave/internal/infrastructure/pluginrt"
)

func init() {
	pluginCmd := &cobra.Command{
		Use:   "plugin",
		Short: "Compile and run build/test plugins",
	}

	var pluginCacheDir string
	var pluginAPIPath string

	compileCmd := &cobra.Command{
		Use:   "compile <sources...>",
		Short: "Compile plugin sources to a cached executable",
		Args:  cobra.MinimumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			cacheDir := pluginCacheDir
			if cacheDir == "" {
				cacheDir = ctx.Container.PluginCacheDir()
			}

			result, err := pluginrt.Compile(ctx.Context, pluginrt.CompileInput{
				Sources:       args,
				CacheDir:      cacheDir,
				PluginAPIPath: pluginAPIPath,
				Toolchain:     ctx.Container.Toolchain(),
			})
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}

			fmt.Printf("compiled %s (cached: %v)\n", result.CompiledExecutable, result.WasCached)
			return nil
		}),
	}
	compileCmd.Flags().StringVar(&pluginCacheDir, "cache-dir", "", "plugin executable cache directory (defaults to the workspace plugin cache)")
	compileCmd.Flags().StringVar(&pluginAPIPath, "plugin-api", "", "directory holding the plugin API sources import")

	var invokeParams map[string]string

	runCmd := &cobra.Command{
		Use:   "run <sources...>",
		Short: "Compile plugin sources and invoke performAction",
		Args:  cobra.MinimumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			cacheDir := pluginCacheDir
			if cacheDir == "" {
				cacheDir = ctx.Container.PluginCacheDir()
			}

			compiled, err := pluginrt.Compile(ctx.Context, pluginrt.CompileInput{
				Sources:       args,
				CacheDir:      cacheDir,
				PluginAPIPath: pluginAPIPath,
				Toolchain:     ctx.Container.Toolchain(),
			})
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}

			sourceDir := filepath.Dir(args[0])
			sandbox := pluginrt.NewSandboxPolicy(cacheDir)
			sandbox.AllowRead(sourceDir)

			delegate := &pluginrt.RecordingDelegate{Delegate: consoleDelegate{}}
			result, err := ctx.Container.Runtime().Invoke(ctx.Context, pluginrt.InvokeInput{
				CompiledExecutable: compiled.CompiledExecutable,
				SourceDirectory:    sourceDir,
				Sandbox:            sandbox,
				Input:              pluginrt.PerformActionInput{Parameters: invokeParams},
				Delegate:           delegate,
				Redactor:           ctx.Container.Redactor(),
			})
			if err != nil {
				return fmt.Errorf("invoke: %w", err)
			}

			fmt.Printf("invocation finished (success: %v, error emitted: %v)\n", result.Success, result.ErrorEmitted)
			if result.StderrAccumulated != "" {
				fmt.Fprint(cmd.ErrOrStderr(), result.StderrAccumulated)
			}

			commands := delegate.Commands()
			for _, b := range commands.BuildCommands {
				fmt.Printf("  declared build command: %s\n", b.DisplayName)
			}
			for _, p := range commands.PrebuildCommands {
				fmt.Printf("  declared prebuild command: %s\n", p.DisplayName)
			}
			return nil
		}),
	}
	runCmd.Flags().StringVar(&pluginCacheDir, "cache-dir", "", "plugin executable cache directory (defaults to the workspace plugin cache)")
	runCmd.Flags().StringVar(&pluginAPIPath, "plugin-api", "", "directory holding the plugin API sources import")
	runCmd.Flags().StringToStringVar(&invokeParams, "param", nil, "performAction parameter, repeatable as key=value")

	addCommonFlags(pluginCmd)
	pluginCmd.AddCommand(compileCmd, runCmd)
	rootCmd.AddCommand(pluginCmd)
}
