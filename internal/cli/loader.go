package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/tburk/tapevm/internal/engine"
	"github.com/tburk/tapevm/internal/tape"
)

// Profile is a machine configuration loaded from a CUE file. Fields absent
// from the file keep the engine defaults.
//
// Example profile:
//
//	initialCapacity: 4096
//	eofMode:         "zero"
//	maxSteps:        10_000_000
type Profile struct {
	InitialCapacity int    `json:"initialCapacity"`
	EOFMode         string `json:"eofMode"`
	MaxSteps        int64  `json:"maxSteps"`
}

// LoadProfile reads and validates a machine profile from a CUE file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compiling profile %s: %w", path, err)
	}

	profile := &Profile{
		InitialCapacity: tape.DefaultCapacity,
		EOFMode:         string(engine.EOFLeave),
	}

	if v := value.LookupPath(cue.ParsePath("initialCapacity")); v.Exists() {
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("profile %s: initialCapacity: %w", path, err)
		}
		profile.InitialCapacity = int(n)
	}
	if v := value.LookupPath(cue.ParsePath("eofMode")); v.Exists() {
		s, err := v.String()
		if err != nil {
			return nil, fmt.Errorf("profile %s: eofMode: %w", path, err)
		}
		profile.EOFMode = s
	}
	if v := value.LookupPath(cue.ParsePath("maxSteps")); v.Exists() {
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("profile %s: maxSteps: %w", path, err)
		}
		profile.MaxSteps = n
	}

	if err := profile.validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

func (p *Profile) validate() error {
	if p.InitialCapacity < 1 {
		return fmt.Errorf("initialCapacity must be positive, got %d", p.InitialCapacity)
	}
	if _, err := engine.ParseEOFMode(p.EOFMode); err != nil {
		return err
	}
	if p.MaxSteps < 0 {
		return fmt.Errorf("maxSteps must not be negative, got %d", p.MaxSteps)
	}
	return nil
}

// Options converts the profile into machine options.
func (p *Profile) Options() []engine.Option {
	mode, _ := engine.ParseEOFMode(p.EOFMode)
	return []engine.Option{
		engine.WithInitialCapacity(p.InitialCapacity),
		engine.WithEOFMode(mode),
		engine.WithMaxSteps(p.MaxSteps),
	}
}
