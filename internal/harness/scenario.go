package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultMaxSteps bounds scenario execution when the scenario does not set
// its own quota. Generous enough for real programs, small enough that a
// runaway loop fails in well under a second.
const DefaultMaxSteps = 1_000_000

// Scenario defines one conformance test case.
type Scenario struct {
	// Name uniquely identifies this scenario; the golden snapshot file
	// shares it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Program is inline source text. Mutually exclusive with ProgramFile.
	Program string `yaml:"program,omitempty"`

	// ProgramFile is a source path relative to the scenario file.
	ProgramFile string `yaml:"program_file,omitempty"`

	// Input is the byte stream served to Input instructions.
	Input string `yaml:"input,omitempty"`

	// Optimize runs the loop optimizer before execution.
	Optimize bool `yaml:"optimize,omitempty"`

	// EOFMode names the end-of-input convention (leave, zero, eof255).
	// Empty means leave.
	EOFMode string `yaml:"eof_mode,omitempty"`

	// MaxSteps overrides DefaultMaxSteps when positive.
	MaxSteps int64 `yaml:"max_steps,omitempty"`

	// Expect describes the required outcome.
	Expect ExpectClause `yaml:"expect"`

	// dir is the scenario file's directory, for resolving ProgramFile.
	dir string
}

// ExpectClause specifies the expected outcome of a scenario.
type ExpectClause struct {
	// Output is the exact expected output byte string.
	Output string `yaml:"output,omitempty"`

	// Error names an expected failure category: "underflow", "quota",
	// or "parse". Empty means the run must succeed.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and validates a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)

	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// LoadScenarios reads every *.yaml scenario in dir, sorted by filename so
// suites run in a stable order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("missing name")
	}
	if s.Program == "" && s.ProgramFile == "" {
		return fmt.Errorf("one of program or program_file is required")
	}
	if s.Program != "" && s.ProgramFile != "" {
		return fmt.Errorf("program and program_file are mutually exclusive")
	}
	switch s.Expect.Error {
	case "", "underflow", "quota", "parse":
	default:
		return fmt.Errorf("unknown expected error %q", s.Expect.Error)
	}
	return nil
}

// Source returns the program text, reading ProgramFile when set.
func (s *Scenario) Source() (string, error) {
	if s.Program != "" {
		return s.Program, nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, s.ProgramFile))
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	return string(data), nil
}
