package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tburk/tapevm/internal/compiler"
)

// CheckResult holds parse results for the check command.
type CheckResult struct {
	Valid  bool         `json:"valid"`
	Errors []CheckIssue `json:"errors,omitempty"`
}

// CheckIssue is one positioned parse problem.
type CheckIssue struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <program.bf>",
		Short: "Parse a program without executing it",
		Long: `Parse a program and report bracket balance problems with their
source position. Faster than run for editor feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	src, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, fmt.Sprintf("reading program: %v", err), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: reading program: %v", ErrCodeReadFailed, err))
	}

	formatter.VerboseLog("Checking %s (%d bytes)", path, len(src))

	if _, err := compiler.Parse(string(src)); err != nil {
		var parseErr *compiler.ParseError
		if errors.As(err, &parseErr) {
			return outputCheckFailure(formatter, CheckIssue{
				Line:    parseErr.Pos.Line,
				Column:  parseErr.Pos.Col,
				Message: parseErr.Msg,
			})
		}
		return outputCheckFailure(formatter, CheckIssue{Message: err.Error()})
	}

	return outputCheckSuccess(formatter)
}

// outputCheckSuccess outputs successful check results.
func outputCheckSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(CheckResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ Program parses")
	return nil
}

// outputCheckFailure outputs the parse problem.
func outputCheckFailure(formatter *OutputFormatter, issue CheckIssue) error {
	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeParse, issue.Message, CheckResult{
			Valid:  false,
			Errors: []CheckIssue{issue},
		})
		// Parse failures = exit code 1 (program failure)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeParse, issue.Message))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Parse failed")
	fmt.Fprintln(formatter.Writer)
	if issue.Line > 0 {
		fmt.Fprintf(formatter.Writer, "%d:%d\n", issue.Line, issue.Column)
	}
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeParse, issue.Message)

	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeParse, issue.Message))
}
