package harness

import (
	"errors"
	"fmt"

	"github.com/tburk/tapevm/internal/compiler"
	"github.com/tburk/tapevm/internal/engine"
)

// Check compares a result against its scenario's expect clause and returns
// one message per violated expectation. An empty slice means the scenario
// passed.
func Check(res *Result) []string {
	sc := res.Scenario
	var failures []string

	switch sc.Expect.Error {
	case "":
		if res.Err != nil {
			failures = append(failures, fmt.Sprintf("expected success, got error: %v", res.Err))
			break
		}
		if got := string(res.Output); got != sc.Expect.Output {
			failures = append(failures, fmt.Sprintf("output mismatch: want %q, got %q", sc.Expect.Output, got))
		}

	case "underflow":
		if !engine.IsUnderflowError(res.Err) {
			failures = append(failures, fmt.Sprintf("expected pointer underflow, got: %v", res.Err))
		}

	case "quota":
		if !engine.IsQuotaError(res.Err) {
			failures = append(failures, fmt.Sprintf("expected step quota violation, got: %v", res.Err))
		}

	case "parse":
		var pe *compiler.ParseError
		if !errors.As(res.Err, &pe) {
			failures = append(failures, fmt.Sprintf("expected parse error, got: %v", res.Err))
		}
	}

	return failures
}
