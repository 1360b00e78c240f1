// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the outreach-engine CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/outreach-engine/internal/secrets"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the shared diagnostic logger; stage progress goes to stdout.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// secretDefault returns fallback if non-empty, else the loaded secret for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the outreach-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "outreach-engine",
	Short: "Batch generation of personalized outreach emails for paper authors",
	Long: `outreach-engine assembles a dataset of research works from a scholarly-works
index, distills each abstract into a structured research context, generates a
set of personalized email variants per work, and exports one row per author.

Each pipeline stage is a subcommand: fetch, compose, and export. Stages share
a run store, so a dataset fetched once can be composed and exported later.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./outreach-engine.yaml or ~/.config/outreach-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("outreach-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "outreach-engine"))
		}
	}

	viper.SetEnvPrefix("OUTREACH_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// httpTimeout returns the configured HTTP timeout, defaulting to 60 s
// (model calls are seconds-scale).
func httpTimeout() time.Duration {
	if t := viper.GetDuration("http.timeout"); t > 0 {
		return t
	}
	return 60 * time.Second
}

// newHTTPClient builds the per-invocation HTTP client shared by a stage.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout()}
}

// storeConfig reads the run store settings.
func storeConfig() types.StoreConfig {
	return types.StoreConfig{Path: viper.GetString("store.path")}
}

// aiConfig reads the shared language-model settings, resolving the API key
// from flags, config, or the secrets directory.
func aiConfig() types.AIConfig {
	provider := types.AIProvider(viper.GetString("compose.provider"))
	if provider == "" {
		provider = types.ProviderOpenAI
	}

	secretKey := "openai-api-key"
	if provider == types.ProviderClaude {
		secretKey = "anthropic-api-key"
	}

	return types.AIConfig{
		Provider:    provider,
		Model:       viper.GetString("compose.model"),
		APIKey:      secretDefault(secretKey, viper.GetString("compose.api_key")),
		Temperature: viper.GetFloat64("compose.temperature"),
		MaxTokens:   viper.GetInt("compose.max_tokens"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
