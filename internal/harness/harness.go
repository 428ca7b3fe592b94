package harness

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/tburk/tapevm/internal/compiler"
	"github.com/tburk/tapevm/internal/engine"
	"github.com/tburk/tapevm/internal/ir"
	"github.com/tburk/tapevm/internal/testutil"
)

// Result captures everything one scenario execution produced.
type Result struct {
	// Scenario is the scenario that ran.
	Scenario *Scenario

	// Program is the compiled instruction sequence, nil when compilation
	// itself failed.
	Program []ir.Instruction

	// Output holds the bytes the program wrote.
	Output []byte

	// Report is the execution report, nil when the program never ran.
	Report *engine.Report

	// Err is the compile or runtime error, if any.
	Err error
}

// RunScenario compiles and executes one scenario on a machine with scripted
// input and a fixed run token, so two runs of the same scenario produce the
// same result.
func RunScenario(ctx context.Context, sc *Scenario) (*Result, error) {
	src, err := sc.Source()
	if err != nil {
		return nil, err
	}

	res := &Result{Scenario: sc}

	program, err := compiler.Compile(src, sc.Optimize)
	if err != nil {
		res.Err = err
		return res, nil
	}
	res.Program = program

	maxSteps := sc.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	opts := []engine.Option{
		engine.WithMaxSteps(maxSteps),
		engine.WithTokenGenerator(testutil.NewFixedTokenGenerator("")),
	}
	if sc.EOFMode != "" {
		mode, err := engine.ParseEOFMode(sc.EOFMode)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		opts = append(opts, engine.WithEOFMode(mode))
	}

	var out bytes.Buffer
	m := engine.New(strings.NewReader(sc.Input), &out, opts...)

	rpt, runErr := m.Run(ctx, program)
	res.Output = out.Bytes()
	res.Report = rpt
	res.Err = runErr
	return res, nil
}
