package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/metaflux/metaflux/internal/driver"
)

// WriteCSV writes a trajectory as CSV: a Time column followed by one column
// per metabolite in pathway declaration order, rows in ascending time.
// Numeric fields carry six fractional digits; metabolites missing from a
// snapshot are written as 0.
func WriteCSV(w io.Writer, metaboliteOrder []string, traj *driver.Trajectory) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("Time"); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, id := range metaboliteOrder {
		if _, err := bw.WriteString("," + id); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, snap := range traj.Snapshots {
		if _, err := bw.WriteString(strconv.FormatFloat(snap.TimeS, 'f', 6, 64)); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
		for _, id := range metaboliteOrder {
			v := snap.Concentrations[id] // missing ids read as 0
			if _, err := bw.WriteString("," + strconv.FormatFloat(v, 'f', 6, 64)); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	return bw.Flush()
}

// WriteJSONL writes a trajectory as one snapshot JSON object per line.
func WriteJSONL(w io.Writer, traj *driver.Trajectory) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, snap := range traj.Snapshots {
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("writing JSONL snapshot: %w", err)
		}
	}
	return bw.Flush()
}
