package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every conformance scenario under testdata/scenarios,
// checks its expect clause, and compares its snapshot against the golden
// files. Run with -update after intentional behavior changes.
func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			res, err := RunScenario(context.Background(), sc)
			require.NoError(t, err)

			for _, failure := range Check(res) {
				t.Error(failure)
			}
			AssertGolden(t, res)
		})
	}
}

func TestRunScenario_FixedToken(t *testing.T) {
	sc := &Scenario{
		Name:    "token",
		Program: "+.",
		Expect:  ExpectClause{Output: "\x01"},
	}

	res, err := RunScenario(context.Background(), sc)
	require.NoError(t, err)
	require.NotNil(t, res.Report)
	assert.Equal(t, "test-run-default", res.Report.Token, "scenario runs use a fixed token")
}

func TestRunScenario_DefaultQuotaStopsRunaways(t *testing.T) {
	sc := &Scenario{
		Name:    "runaway",
		Program: "+[]",
		Expect:  ExpectClause{Error: "quota"},
	}

	res, err := RunScenario(context.Background(), sc)
	require.NoError(t, err)
	assert.Empty(t, Check(res))
	assert.Equal(t, int64(DefaultMaxSteps)+1, res.Report.Steps)
}

func TestRunScenario_BadEOFMode(t *testing.T) {
	sc := &Scenario{
		Name:    "bad-eof",
		Program: "+",
		EOFMode: "sideways",
	}

	_, err := RunScenario(context.Background(), sc)
	assert.ErrorContains(t, err, "invalid eof mode")
}

func TestCheck_Mismatches(t *testing.T) {
	res, err := RunScenario(context.Background(), &Scenario{
		Name:    "wrong-output",
		Program: "+.",
		Expect:  ExpectClause{Output: "nope"},
	})
	require.NoError(t, err)

	failures := Check(res)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "output mismatch")
}

func TestCheck_ParseError(t *testing.T) {
	res, err := RunScenario(context.Background(), &Scenario{
		Name:    "dangling-bracket",
		Program: "[",
		Expect:  ExpectClause{Error: "parse"},
	})
	require.NoError(t, err)

	assert.Empty(t, Check(res))
	assert.Nil(t, res.Program)
}

func TestCheck_UnexpectedSuccess(t *testing.T) {
	res, err := RunScenario(context.Background(), &Scenario{
		Name:    "no-underflow",
		Program: "+",
		Expect:  ExpectClause{Error: "underflow"},
	})
	require.NoError(t, err)

	failures := Check(res)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "expected pointer underflow")
}
