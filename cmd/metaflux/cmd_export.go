package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaflux/metaflux/internal/store"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored run as CSV or JSONL",
		RunE: func(cmd *cobra.Command, args []string) error {
			storePath, _ := cmd.Flags().GetString("store")
			if storePath == "" {
				return fmt.Errorf("--store is required")
			}
			runID, _ := cmd.Flags().GetInt64("run")
			format, _ := cmd.Flags().GetString("format")

			s, err := store.Open(storePath)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := context.Background()

			if runID == 0 {
				// Default to the most recent run.
				runs, err := s.ListRuns(ctx)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					return fmt.Errorf("no runs in %s", storePath)
				}
				runID = runs[0].ID
			}

			meta, err := s.GetRun(ctx, runID)
			if err != nil {
				return err
			}
			traj, err := s.GetTrajectory(ctx, runID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "csv":
				return store.WriteCSV(out, meta.MetaboliteOrder, &traj)
			case "jsonl":
				return store.WriteJSONL(out, &traj)
			default:
				return fmt.Errorf("unknown format %q (valid: csv, jsonl)", format)
			}
		},
	}

	cmd.Flags().String("store", "", "SQLite trajectory database")
	cmd.Flags().Int64("run", 0, "Run id to export (default: most recent)")
	cmd.Flags().String("format", "csv", "Export format: csv or jsonl")
	cmd.Flags().String("out", "", "Output file (default: stdout)")
	return cmd
}
