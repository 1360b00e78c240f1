// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/outreach-engine/internal/export"
	"github.com/pdiddy/outreach-engine/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a composed run as one row per author",
	Long: `Export explodes each record into one row per listed author, duplicating the
generated email variants across the rows of a work, and writes matching CSV
and XLSX files plus a manifest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, _ := cmd.Flags().GetString("run")
		if runID == "" {
			return fmt.Errorf("--run is required")
		}

		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = viper.GetString("export.dir")
		}
		if dir == "" {
			dir = "exports"
		}

		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		info, err := s.GetRun(cmd.Context(), runID)
		if err != nil {
			return err
		}
		records, err := s.LoadRun(cmd.Context(), runID)
		if err != nil {
			return err
		}

		manifest, err := export.WriteAll(records, dir, info.ID, info.Filter)
		if err != nil {
			return err
		}

		fmt.Printf("exported %d rows from %d works to %s\n", manifest.Rows, manifest.Works, dir)
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs stored.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tCREATED\tWORKS\tFILTER")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Works, r.Filter)
		}
		return w.Flush()
	},
}

func init() {
	exportCmd.Flags().String("run", "", "run identifier from a previous fetch")
	exportCmd.Flags().String("out", "", "output directory (default \"exports\")")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runsCmd)
}
