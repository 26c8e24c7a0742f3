package simulation

import (
	"testing"

	"github.com/metaflux/metaflux/internal/driver"
)

// AssertInvariants checks the per-run trajectory invariants: strictly
// increasing snapshot times, non-negative finite concentrations, and id
// closure against the given metabolite index.
func AssertInvariants(t *testing.T, d *driver.Driver, index map[string]int) {
	t.Helper()

	snaps := d.Trajectory().Snapshots
	if len(snaps) == 0 {
		t.Fatal("no snapshots emitted")
	}

	last := snaps[0].TimeS - 1
	for _, s := range snaps {
		if s.TimeS <= last {
			t.Errorf("snapshot time %v not after %v", s.TimeS, last)
		}
		last = s.TimeS

		for id, v := range s.Concentrations {
			if v < 0 {
				t.Errorf("t=%v: %s = %v < 0", s.TimeS, id, v)
			}
			if v != v {
				t.Errorf("t=%v: %s is NaN", s.TimeS, id)
			}
			if _, ok := index[id]; !ok {
				t.Errorf("t=%v: key %q not declared in pathway", s.TimeS, id)
			}
		}
	}
}
