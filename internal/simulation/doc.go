// Package simulation provides a scenario-driven end-to-end test harness.
// Scenarios declare a run configuration, an optional raw genotype file, and
// supplements; the runner prepares and executes the full pipeline against
// the built-in pathway set and returns the trajectory for assertions.
//
// The package contains no production code; it exists so end-to-end tests
// across packages share one way of setting up runs.
package simulation
