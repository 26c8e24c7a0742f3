package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/metaflux/metaflux/internal/pathway"
	"github.com/metaflux/metaflux/internal/profile"
	"github.com/metaflux/metaflux/internal/sim"
	"github.com/metaflux/metaflux/internal/store"
)

// registerTools registers all metaflux MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "run_simulation",
		Description: "Run a personalized pathway simulation and return final concentrations",
	}, s.handleRunSimulation)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "list_pathways",
		Description: "List the pathways available to the simulator",
	}, s.handleListPathways)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_snapshot",
		Description: "Read one sample from a stored trajectory, by run and sim time",
	}, s.handleGetSnapshot)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "explain_genetics",
		Description: "Resolve a raw genotype file against the enzyme table and report activity multipliers",
	}, s.handleExplainGenetics)
}

// handleRunSimulation runs one batch simulation from the server's base
// configuration with per-call overrides.
func (s *Server) handleRunSimulation(ctx context.Context, req *sdk.CallToolRequest, input RunSimulationInput) (*sdk.CallToolResult, RunSimulationOutput, error) {
	cfg := *s.base
	if input.Duration > 0 {
		cfg.Duration = input.Duration
	}
	if input.OutputInterval > 0 {
		cfg.OutputInterval = input.OutputInterval
	}
	if input.GeneticProfile != "" {
		cfg.GeneticProfile = input.GeneticProfile
	}
	cfg.CaptureFluxes = input.CaptureFluxes

	prep, err := sim.Prepare(&cfg, s.logger)
	if err != nil {
		return nil, RunSimulationOutput{}, fmt.Errorf("preparing simulation: %w", err)
	}
	defer prep.Close()

	d := prep.Run()
	final, ok := d.Trajectory().Final()
	if !ok {
		return nil, RunSimulationOutput{}, fmt.Errorf("simulation produced no snapshots")
	}

	conc := final.Concentrations
	if len(input.Metabolites) > 0 {
		conc = make(map[string]float64, len(input.Metabolites))
		for _, id := range input.Metabolites {
			if v, ok := final.Concentration(id); ok {
				conc[id] = v
			}
		}
	}

	out := RunSimulationOutput{
		DurationS: final.TimeS,
		Snapshots: len(d.Trajectory().Snapshots),
		Final:     conc,
		Fluxes:    final.Fluxes,
		Anomalies: d.Anomalies(),
	}
	return nil, out, nil
}

// handleListPathways reports the pathway set the server simulates over.
func (s *Server) handleListPathways(ctx context.Context, req *sdk.CallToolRequest, input ListPathwaysInput) (*sdk.CallToolResult, ListPathwaysOutput, error) {
	pathways, err := s.loadPathways()
	if err != nil {
		return nil, ListPathwaysOutput{}, err
	}

	out := ListPathwaysOutput{Count: len(pathways)}
	for _, p := range pathways {
		out.Pathways = append(out.Pathways, PathwaySummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Metabolites: len(p.Metabolites),
			Reactions:   len(p.Reactions),
			Enzymes:     len(p.Enzymes),
		})
	}
	return nil, out, nil
}

// handleGetSnapshot reads one sample from a persisted run's trajectory.
func (s *Server) handleGetSnapshot(ctx context.Context, req *sdk.CallToolRequest, input GetSnapshotInput) (*sdk.CallToolResult, GetSnapshotOutput, error) {
	path := input.StorePath
	if path == "" {
		path = s.base.StorePath
	}
	if path == "" {
		return nil, GetSnapshotOutput{}, fmt.Errorf("store_path is required (no store configured)")
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, GetSnapshotOutput{}, err
	}
	defer st.Close()

	runID := input.RunID
	if runID == 0 {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return nil, GetSnapshotOutput{}, err
		}
		if len(runs) == 0 {
			return nil, GetSnapshotOutput{}, fmt.Errorf("no runs in %s", path)
		}
		runID = runs[0].ID
	}

	traj, err := st.GetTrajectory(ctx, runID)
	if err != nil {
		return nil, GetSnapshotOutput{}, err
	}
	if len(traj.Snapshots) == 0 {
		return nil, GetSnapshotOutput{}, fmt.Errorf("run %d has no samples", runID)
	}

	// Samples are in ascending time: default to the last one, or walk back
	// to the latest sample at or before the requested time.
	snap := traj.Snapshots[len(traj.Snapshots)-1]
	if input.TimeS > 0 {
		snap = traj.Snapshots[0]
		for _, sample := range traj.Snapshots {
			if sample.TimeS > input.TimeS {
				break
			}
			snap = sample
		}
	}

	conc := snap.Concentrations
	if len(input.Metabolites) > 0 {
		conc = make(map[string]float64, len(input.Metabolites))
		for _, id := range input.Metabolites {
			if v, ok := snap.Concentration(id); ok {
				conc[id] = v
			}
		}
	}

	out := GetSnapshotOutput{
		RunID:          runID,
		TimeS:          snap.TimeS,
		Concentrations: conc,
		Fluxes:         snap.Fluxes,
	}
	return nil, out, nil
}

// handleExplainGenetics resolves a genotype file into per-enzyme multipliers.
func (s *Server) handleExplainGenetics(ctx context.Context, req *sdk.CallToolRequest, input ExplainGeneticsInput) (*sdk.CallToolResult, ExplainGeneticsOutput, error) {
	if input.GeneticProfile == "" {
		return nil, ExplainGeneticsOutput{}, fmt.Errorf("genetic_profile is required")
	}

	genetics, _, err := profile.LoadSNPFile(input.GeneticProfile)
	if err != nil {
		return nil, ExplainGeneticsOutput{}, fmt.Errorf("loading genotype file: %w", err)
	}

	pathways, err := s.loadPathways()
	if err != nil {
		return nil, ExplainGeneticsOutput{}, err
	}

	var out ExplainGeneticsOutput
	seen := make(map[string]bool)
	for _, p := range pathways {
		for _, e := range p.Enzymes {
			if seen[e.ID] || len(e.GeneticModifiers) == 0 {
				continue
			}
			seen[e.ID] = true

			multiplier := profile.EnzymeGeneticMultiplier(genetics, e)
			if multiplier == 1.0 {
				continue
			}

			effect := GeneticEffect{EnzymeID: e.ID, EnzymeName: e.Name, Multiplier: multiplier}
			for _, m := range e.GeneticModifiers {
				genotype := genetics.Genotype(m.RsID)
				if genotype == "" {
					continue
				}
				effect.Variants = append(effect.Variants, VariantHit{
					RsID:       m.RsID,
					Gene:       m.GeneName,
					Genotype:   genotype,
					RiskCopies: profile.CountRiskAlleles(genotype, m),
					Multiplier: profile.ModifierMultiplier(genetics, m),
				})
			}
			out.Effects = append(out.Effects, effect)
		}
	}
	out.Count = len(out.Effects)
	return nil, out, nil
}

func (s *Server) loadPathways() ([]pathway.Pathway, error) {
	if s.base.PathwaysFile != "" {
		return pathway.LoadFiles(s.base.EnzymesFile, s.base.PathwaysFile)
	}
	return sim.ExamplePathways()
}
