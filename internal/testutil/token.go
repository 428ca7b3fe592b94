package testutil

// FixedTokenGenerator generates the same run token every time.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same scenario with the same FixedTokenGenerator produces
// byte-identical run records.
//
// Unlike engine.FixedGenerator, which returns tokens in sequence and
// panics on exhaustion, this generator never runs out. Useful for harness
// scenarios that run an unknown number of programs.
//
// Thread-safety: stateless after construction, safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator returning token forever.
// If token is empty, Generate() returns "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed run token.
// Implements engine.RunTokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
