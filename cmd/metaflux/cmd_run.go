package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaflux/metaflux/internal/config"
	"github.com/metaflux/metaflux/internal/logging"
	"github.com/metaflux/metaflux/internal/sim"
	"github.com/metaflux/metaflux/internal/store"
)

// loadRunConfig resolves the --config flag into a RunConfig, falling back
// to defaults when no file is given.
func loadRunConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a batch simulation and report final concentrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}

			if v, _ := cmd.Flags().GetFloat64("duration"); v > 0 {
				cfg.Duration = v
			}
			if v, _ := cmd.Flags().GetFloat64("output-interval"); v > 0 {
				cfg.OutputInterval = v
			}
			if v, _ := cmd.Flags().GetString("genetic-profile"); v != "" {
				cfg.GeneticProfile = v
			}
			if v, _ := cmd.Flags().GetString("store"); v != "" {
				cfg.StorePath = v
			}
			if v, _ := cmd.Flags().GetBool("fluxes"); v {
				cfg.CaptureFluxes = true
			}

			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			prep, err := sim.Prepare(cfg, logger)
			if err != nil {
				return err
			}
			defer prep.Close()

			d := prep.Run()
			traj := d.Trajectory()
			final, ok := traj.Final()
			if !ok {
				return fmt.Errorf("simulation produced no snapshots")
			}

			var runID int64
			if cfg.StorePath != "" {
				s, err := store.Open(cfg.StorePath)
				if err != nil {
					return err
				}
				defer s.Close()

				order := make([]string, len(prep.Pathway.Metabolites))
				for i, m := range prep.Pathway.Metabolites {
					order[i] = m.ID
				}
				runID, err = s.SaveTrajectory(context.Background(), store.RunMeta{
					PathwayID:       prep.Pathway.ID,
					PathwayName:     prep.Pathway.Name,
					MetaboliteOrder: order,
					TimeStep:        cfg.TimeStep,
					Duration:        cfg.Duration,
				}, traj)
				if err != nil {
					return err
				}
			}

			if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
				order := make([]string, len(prep.Pathway.Metabolites))
				for i, m := range prep.Pathway.Metabolites {
					order[i] = m.ID
				}
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("creating CSV file: %w", err)
				}
				defer f.Close()
				if err := store.WriteCSV(f, order, traj); err != nil {
					return err
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"duration_s": final.TimeS,
					"snapshots":  len(traj.Snapshots),
					"final":      final.Concentrations,
					"anomalies":  d.Anomalies(),
					"run_id":     runID,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Simulated %.1fs of %s (%d snapshots)\n",
				final.TimeS, prep.Pathway.Name, len(traj.Snapshots))
			if runID != 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved as run %d in %s\n", runID, cfg.StorePath)
			}
			for _, m := range prep.Pathway.Metabolites {
				if v, ok := final.Concentration(m.ID); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %.6f mM\n", m.ID, v)
				}
			}
			if n := d.Anomalies(); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Neutralized %d non-finite derivative components\n", n)
			}
			return nil
		},
	}

	cmd.Flags().Float64("duration", 0, "Simulated seconds to integrate")
	cmd.Flags().Float64("output-interval", 0, "Sim-seconds between snapshots")
	cmd.Flags().String("genetic-profile", "", "Raw genotype export to personalize with")
	cmd.Flags().String("store", "", "SQLite database to save the trajectory into")
	cmd.Flags().String("csv", "", "CSV file to export the trajectory to")
	cmd.Flags().Bool("fluxes", false, "Capture per-reaction rates in snapshots")
	return cmd
}
