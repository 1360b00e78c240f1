// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/outreach-engine/internal/corpus"
	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a dataset of work records from the scholarly-works index",
	Long: `Fetch pages through the filtered works listing until the target count is
reached or the source is exhausted, backfills missing abstracts, and stores
the deduplicated dataset as a new run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		if filter == "" {
			filter = viper.GetString("fetch.filter")
		}
		count, _ := cmd.Flags().GetInt("count")
		if count <= 0 {
			count = viper.GetInt("fetch.count")
		}
		if count <= 0 {
			count = 50
		}

		cfg := types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   httpTimeout(),
				UserAgent: "outreach-engine/" + version,
			},
			Filter:            filter,
			TargetCount:       count,
			PerPage:           viper.GetInt("fetch.per_page"),
			Mailto:            secretDefault("openalex-email", viper.GetString("fetch.mailto")),
			RequestsPerSecond: viper.GetFloat64("fetch.rate_limit"),
		}

		fetcher := corpus.NewFetcher(newHTTPClient(), logger, cfg)
		records, err := fetcher.Fetch(cmd.Context(), count, os.Stdout)
		if err != nil {
			return err
		}

		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		runID, err := s.CreateRun(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if err := s.SaveWorks(cmd.Context(), runID, records); err != nil {
			return err
		}

		fmt.Printf("\nrun %s: %d records stored\n", runID, len(records))
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("filter", "", "works-listing filter expression (passed through verbatim)")
	fetchCmd.Flags().Int("count", 0, "target number of work records (default 50)")

	rootCmd.AddCommand(fetchCmd)
}
