package simulation

import (
	"testing"

	"github.com/metaflux/metaflux/internal/profile"
)

// mthfrTTGenotype is a raw plus-strand genotype export carrying the MTHFR
// C677T risk genotype. The modifier declares risk allele T on the minus
// strand, so the plus-strand AA call complements to TT: homozygous.
const mthfrTTGenotype = "# raw genotype data\n" +
	"rs1801133\t1\t11856378\tAA\n" +
	"rs1801131\t1\t11854476\tTT\n"

func TestMethylationBaseline(t *testing.T) {
	r := NewRunner(t)
	d := r.Run(Scenario{Duration: 30, TimeStep: 0.01, OutputInterval: 10})

	snaps := d.Trajectory().Snapshots
	if len(snaps) < 4 {
		t.Fatalf("got %d snapshots, want at least 4 (t=0,10,20,30)", len(snaps))
	}
	if first, last := snaps[0].TimeS, snaps[len(snaps)-1].TimeS; first != 0 || last < 29.9 {
		t.Errorf("trajectory spans [%v, %v], want [0, ~30]", first, last)
	}

	for _, id := range []string{"hcy", "methyl_thf", "sam"} {
		for _, s := range snaps {
			v, ok := s.Concentration(id)
			if !ok {
				t.Fatalf("t=%v: %s missing", s.TimeS, id)
			}
			if v <= 0 {
				t.Errorf("t=%v: %s = %v, want positive", s.TimeS, id, v)
			}
		}
	}
}

func TestMTHFRVariantReducesMethylTHF(t *testing.T) {
	r := NewRunner(t)

	baseline := r.Run(Scenario{Duration: 60})
	variant := r.Run(Scenario{Duration: 60, Genotype: mthfrTTGenotype})

	base := r.FinalConcentration(baseline, "methyl_thf")
	reduced := r.FinalConcentration(variant, "methyl_thf")

	if reduced >= base {
		t.Errorf("TT variant methyl_thf = %v, want strictly below baseline %v", reduced, base)
	}
}

func TestMethylfolateSupplementRescues(t *testing.T) {
	r := NewRunner(t)

	variant := r.Run(Scenario{Duration: 60, Genotype: mthfrTTGenotype})
	rescued := r.Run(Scenario{
		Duration: 60,
		Genotype: mthfrTTGenotype,
		Supplements: []profile.Supplement{{
			ID:              "methylfolate",
			Type:            profile.SupplementSubstrateIncrease,
			TargetID:        "methyl_thf",
			EffectMagnitude: 0.1,
		}},
	})

	unrescued := r.FinalConcentration(variant, "methyl_thf")
	withSupp := r.FinalConcentration(rescued, "methyl_thf")

	if withSupp <= unrescued {
		t.Errorf("supplemented methyl_thf = %v, want strictly above unsupplemented %v", withSupp, unrescued)
	}
}
