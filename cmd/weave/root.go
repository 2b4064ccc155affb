package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the weave binary's entry point.
var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Workspace core for a source-based package manager",
	Long: `weave drives a source-based package manager's workspace core: it
materializes source-control clones, resolves dependency manifests
against pinned versions, and runs sandboxed build/test plugins.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.weave.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("working-dir", ".weave", "workspace working directory")
	rootCmd.PersistentFlags().String("cache-dir", "", "shared repository cache directory")
	rootCmd.PersistentFlags().String("mirrors", "", "shared mirrors.yaml path")
	rootCmd.PersistentFlags().String("registries", "", "shared registries.yaml path")
	rootCmd.PersistentFlags().String("local-mirrors", "", "per-user local-mirrors.yaml path, overlaid onto --mirrors")
	rootCmd.PersistentFlags().String("local-registries", "", "per-user local-registries.yaml path, overlaid onto --registries")
	rootCmd.PersistentFlags().String("plugin-cache", "", "plugin executable cache directory")
	rootCmd.PersistentFlags().Int("max-ops", 0, "maximum concurrent repository operations (0 uses the manager default)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("failed to find home directory", "error", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".weave")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
