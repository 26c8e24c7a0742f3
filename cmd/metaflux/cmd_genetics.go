package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaflux/metaflux/internal/pathway"
	"github.com/metaflux/metaflux/internal/profile"
	"github.com/metaflux/metaflux/internal/sim"
)

func newGeneticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genetics <genotype-file>",
		Short: "Resolve a raw genotype export against the enzyme table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			genetics, skipped, err := profile.LoadSNPFile(args[0])
			if err != nil {
				return err
			}

			enzymesPath, _ := cmd.Flags().GetString("enzymes")
			var enzymes []pathway.Enzyme
			if enzymesPath != "" {
				data, err := os.ReadFile(enzymesPath)
				if err != nil {
					return fmt.Errorf("reading enzymes file: %w", err)
				}
				enzymes, err = pathway.DecodeEnzymes(data)
				if err != nil {
					return err
				}
			} else {
				enzymes, err = sim.ExampleEnzymes()
				if err != nil {
					return err
				}
			}

			type effect struct {
				EnzymeID   string  `json:"enzyme_id"`
				Gene       string  `json:"gene"`
				RsID       string  `json:"rs_id"`
				Genotype   string  `json:"genotype"`
				RiskCopies int     `json:"risk_copies"`
				Multiplier float64 `json:"multiplier"`
			}
			var effects []effect
			for _, e := range enzymes {
				for _, m := range e.GeneticModifiers {
					genotype := genetics.Genotype(m.RsID)
					if genotype == "" {
						continue
					}
					effects = append(effects, effect{
						EnzymeID:   e.ID,
						Gene:       m.GeneName,
						RsID:       m.RsID,
						Genotype:   genotype,
						RiskCopies: profile.CountRiskAlleles(genotype, m),
						Multiplier: profile.ModifierMultiplier(genetics, m),
					})
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"snps_parsed":   len(genetics),
					"lines_skipped": skipped,
					"effects":       effects,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d SNPs (%d lines skipped)\n", len(genetics), skipped)
			for _, ef := range effects {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-14s %-10s %s=%s copies=%d vmax x%.2f\n",
					ef.EnzymeID, ef.Gene, ef.RsID, ef.Genotype, ef.RiskCopies, ef.Multiplier)
			}
			return nil
		},
	}

	cmd.Flags().String("enzymes", "", "Enzymes JSON file (default: built-in table)")
	return cmd
}
