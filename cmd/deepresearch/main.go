// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deepresearch CLI. It wires
// configuration, secrets, and logging, then hands off to the research
// pipeline. See docs/ARCHITECTURE.md § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meshintel/deepresearch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secret returns the secret value for key, preferring the flag value.
func secret(key, flagValue string) string {
	return secrets.Get(loadedSecrets, key, flagValue)
}

// rootCmd is the base command for the deepresearch CLI.
var rootCmd = &cobra.Command{
	Use:   "deepresearch",
	Short: "AI research assistant with multi-source search and fact validation",
	Long: `deepresearch runs a multi-stage research pipeline: it expands a query into
search variations, gathers results from Tavily, Serper, and Jina, filters
noise, scores source credibility, synthesizes findings with a language
model, validates key claims against sources, redacts sensitive data, and
renders a structured markdown report.

Provider and model API keys come from .secrets/ files, environment
variables, or flags. Usage tracking and audit logging are stored in a
local SQLite database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deepresearch.yaml or ~/.config/deepresearch/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deepresearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deepresearch"))
		}
	}

	viper.SetEnvPrefix("DEEPRESEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds a stderr console logger so report output on stdout
// stays clean. Verbose mode lowers the level to debug.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
