// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the postcraft CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshint/postcraft/internal/secrets"
	"github.com/meshint/postcraft/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the postcraft CLI.
var rootCmd = &cobra.Command{
	Use:   "postcraft",
	Short: "Turn gameplay footage into packaged social media posts",
	Long: `postcraft runs a six-stage content pipeline over gameplay assets: it
prepares inputs, analyzes keyword trends, understands screenshots and video,
generates post candidates, validates text and images, and packages the best
options into a final zip ready for publishing.

Every external backend (trend API, Gemini, ffmpeg) is optional; stages fall
back to deterministic behavior when one is unavailable, so a run always
produces a package.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./postcraft.yaml or ~/.config/postcraft/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("postcraft")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "postcraft"))
		}
	}

	viper.SetEnvPrefix("POSTCRAFT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig builds the pipeline configuration from defaults, the config
// file, environment, and loaded secrets.
func loadConfig() types.PipelineConfig {
	cfg := types.DefaultConfig()

	if v := viper.GetString("output_dir"); v != "" {
		cfg.OutputDir = v
		cfg.HistoryPath = filepath.Join(v, "history.db")
	}
	if v := viper.GetString("history_path"); v != "" {
		cfg.HistoryPath = v
	}
	if v := viper.GetString("trend.endpoint"); v != "" {
		cfg.Trend.Endpoint = v
	}
	if v := viper.GetString("trend.geo"); v != "" {
		cfg.Trend.Geo = v
	}
	if v := viper.GetString("model"); v != "" {
		cfg.Understanding.Model = v
		cfg.Generation.Model = v
	}

	cfg.Trend.APIKey = secrets.Get(loadedSecrets, "trends-api-key", "TRENDS_API_KEY")
	gemini := secrets.Get(loadedSecrets, "gemini-api-key", "GEMINI_API_KEY")
	cfg.Understanding.APIKey = gemini
	cfg.Generation.APIKey = gemini

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
