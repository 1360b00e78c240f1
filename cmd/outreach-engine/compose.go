// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/outreach-engine/internal/batch"
	"github.com/pdiddy/outreach-engine/internal/compose"
	"github.com/pdiddy/outreach-engine/internal/distill"
	"github.com/pdiddy/outreach-engine/internal/llm"
	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Generate the email variants for every record in a run",
	Long: `Compose derives one research context per record and generates every email
variant slot in dependency order, then stores the enriched records. A failed
slot degrades to the error sentinel; the batch always runs to completion.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, _ := cmd.Flags().GetString("run")
		if runID == "" {
			return fmt.Errorf("--run is required")
		}

		platformInfo, err := readPlatformInfo(cmd)
		if err != nil {
			return err
		}

		ai := aiConfig()
		client, err := llm.New(ai, newHTTPClient())
		if err != nil {
			return err
		}

		cfg := types.ComposeConfig{
			AIConfig:    ai,
			Strategy:    composeStrategy(cmd),
			MaxAttempts: viper.GetInt("compose.max_attempts"),
			RetryDelay:  viper.GetDuration("compose.retry_delay"),
		}

		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.LoadRun(cmd.Context(), runID)
		if err != nil {
			return err
		}

		opts := llm.Options{Temperature: ai.Temperature, MaxTokens: ai.MaxTokens}
		orchestrator := batch.New(
			distill.NewExtractor(client, logger, opts),
			compose.NewComposer(client, logger, cfg),
			logger,
		)

		summary, err := orchestrator.Run(cmd.Context(), records, platformInfo, os.Stdout)
		if err != nil {
			return err
		}

		if err := s.SaveEmails(cmd.Context(), runID, records); err != nil {
			return err
		}

		if summary.HasDegraded() {
			fmt.Printf("run %s composed with %d degraded records\n", runID, summary.Degraded)
		} else {
			fmt.Printf("run %s composed\n", runID)
		}
		return nil
	},
}

// readPlatformInfo loads the operator-supplied platform description blob.
func readPlatformInfo(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("platform-info")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading platform info: %w", err)
	}
	return string(data), nil
}

func composeStrategy(cmd *cobra.Command) types.ComposeStrategy {
	if s, _ := cmd.Flags().GetString("strategy"); s != "" {
		return types.ComposeStrategy(s)
	}
	if s := viper.GetString("compose.strategy"); s != "" {
		return types.ComposeStrategy(s)
	}
	return types.StrategyTemplated
}

func init() {
	composeCmd.Flags().String("run", "", "run identifier from a previous fetch")
	composeCmd.Flags().String("platform-info", "", "path to the platform description text file")
	composeCmd.Flags().String("strategy", "", "composition strategy: templated or generative")

	rootCmd.AddCommand(composeCmd)
}
