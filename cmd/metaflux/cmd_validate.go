package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metaflux/metaflux/internal/pathway"
	"github.com/metaflux/metaflux/internal/sim"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate pathway configuration files",
		Long: `validate builds the pathway files and reports the first structural
error: duplicate ids, references to undeclared metabolites, unknown
enzymes, or invalid kinetics kinds. With no flags it self-checks the
built-in pathway set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enzymesPath, _ := cmd.Flags().GetString("enzymes")
			pathwaysPath, _ := cmd.Flags().GetString("pathways")

			var pathways []pathway.Pathway
			var err error
			if pathwaysPath != "" {
				pathways, err = pathway.LoadFiles(enzymesPath, pathwaysPath)
			} else {
				pathways, err = sim.ExamplePathways()
			}
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				summaries := make([]map[string]any, 0, len(pathways))
				for _, p := range pathways {
					summaries = append(summaries, map[string]any{
						"id":          p.ID,
						"metabolites": len(p.Metabolites),
						"reactions":   len(p.Reactions),
						"enzymes":     len(p.Enzymes),
					})
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"status":   "valid",
					"pathways": summaries,
				})
			}

			for _, p := range pathways {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d metabolites, %d reactions, %d enzymes\n",
					p.ID, len(p.Metabolites), len(p.Reactions), len(p.Enzymes))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	cmd.Flags().String("enzymes", "", "Enzymes JSON file")
	cmd.Flags().String("pathways", "", "Pathways JSON file")
	return cmd
}
