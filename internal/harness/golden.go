package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/tburk/tapevm/internal/ir"
)

// Snapshot reduces a result to its deterministic fields. Wall-clock
// duration and tape capacity growth timing are excluded; everything kept
// here is a pure function of the scenario.
func Snapshot(res *Result) map[string]any {
	snap := map[string]any{
		"name":      res.Scenario.Name,
		"optimized": res.Scenario.Optimize,
		"output":    string(res.Output),
	}
	if res.Report != nil {
		counts := make(map[string]any, len(res.Report.OpCounts))
		for op, n := range res.Report.OpCounts {
			counts[string(op)] = n
		}
		snap["op_counts"] = counts
		snap["steps"] = res.Report.Steps
	}
	if res.Err != nil {
		snap["error"] = res.Err.Error()
	}
	return snap
}

// AssertGolden compares the scenario's snapshot, in canonical JSON, against
// testdata/golden/<name>.golden. Run with -update to rewrite the snapshots.
func AssertGolden(t *testing.T, res *Result) {
	t.Helper()

	data, err := ir.MarshalCanonical(Snapshot(res))
	if err != nil {
		t.Fatalf("marshaling snapshot: %v", err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, res.Scenario.Name, data)
}
