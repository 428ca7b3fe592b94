package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tburk/tapevm/internal/query"
	"github.com/tburk/tapevm/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string

	// list filters
	Program    string
	SourceHash string
	Optimized  bool
	MinSteps   int64
}

// NewRunsCommand creates the runs command group.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived runs",
		Long: `Inspect runs archived by "run --db".

Run tokens are UUIDv7, so listing by token is listing by start time.

Example:
  tapevm runs list --db ./runs.db
  tapevm runs list --db ./runs.db --program hello.bf --min-steps 1000
  tapevm runs show --db ./runs.db 01921f33-...`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newRunsListCommand(opts))
	cmd.AddCommand(newRunsShowCommand(opts))

	return cmd
}

func newRunsListCommand(opts *RunsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List archived runs in chronological order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Program, "program", "", "only runs of this program path")
	cmd.Flags().StringVar(&opts.SourceHash, "hash", "", "only runs with this source hash")
	cmd.Flags().BoolVar(&opts.Optimized, "optimized", false, "only optimized (or, with =false, unoptimized) runs")
	cmd.Flags().Int64Var(&opts.MinSteps, "min-steps", 0, "only runs that executed at least this many steps")

	return cmd
}

// listFilter builds the archive filter from the list flags. Returns nil
// when no filter flag was set.
func listFilter(opts *RunsOptions, cmd *cobra.Command) query.Predicate {
	var preds []query.Predicate
	if cmd.Flags().Changed("program") {
		preds = append(preds, query.Equals{Column: "program", Value: opts.Program})
	}
	if cmd.Flags().Changed("hash") {
		preds = append(preds, query.Equals{Column: "source_hash", Value: opts.SourceHash})
	}
	if cmd.Flags().Changed("optimized") {
		preds = append(preds, query.Equals{Column: "optimized", Value: opts.Optimized})
	}
	if cmd.Flags().Changed("min-steps") {
		preds = append(preds, query.AtLeast{Column: "steps", Value: opts.MinSteps})
	}

	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return query.And{Predicates: preds}
	}
}

func newRunsShowCommand(opts *RunsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <token>",
		Short:         "Show one archived run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}
}

func runList(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openArchive(opts, formatter)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var runs []store.Run
	if filter := listFilter(opts, cmd); filter != nil {
		runs, err = st.FindRuns(commandContext(cmd), filter)
	} else {
		runs, err = st.ListRuns(commandContext(cmd))
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %v", ErrCodeStore, err))
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  steps=%d output=%dB tape=%d\n",
			r.Token, r.Program, r.Steps, r.OutputBytes, r.TapeCapacity)
	}
	return nil
}

func runShow(opts *RunsOptions, token string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openArchive(opts, formatter)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	run, err := st.GetRun(commandContext(cmd), token)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("run %s not found", token), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", token))
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %v", ErrCodeStore, err))
	}

	if formatter.Format == "json" {
		return formatter.Success(run)
	}

	fmt.Fprintf(formatter.Writer, "Token:         %s\n", run.Token)
	fmt.Fprintf(formatter.Writer, "Program:       %s\n", run.Program)
	fmt.Fprintf(formatter.Writer, "Source hash:   %s\n", run.SourceHash)
	fmt.Fprintf(formatter.Writer, "Optimized:     %t\n", run.Optimized)
	fmt.Fprintf(formatter.Writer, "Steps:         %d\n", run.Steps)
	fmt.Fprintf(formatter.Writer, "Output bytes:  %d\n", run.OutputBytes)
	fmt.Fprintf(formatter.Writer, "Tape capacity: %d\n", run.TapeCapacity)
	fmt.Fprintf(formatter.Writer, "Duration:      %dµs\n", run.DurationMicros)
	fmt.Fprintf(formatter.Writer, "Versions:      engine %s, ir %s\n", run.EngineVersion, run.IRVersion)

	if len(run.OpCounts) > 0 {
		ops := make([]string, 0, len(run.OpCounts))
		for op := range run.OpCounts {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		fmt.Fprintln(formatter.Writer, "Op counts:")
		for _, op := range ops {
			fmt.Fprintf(formatter.Writer, "  %-20s %d\n", op, run.OpCounts[op])
		}
	}
	return nil
}

func openArchive(opts *RunsOptions, formatter *OutputFormatter) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("opening database: %v", err), nil)
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("opening database: %v", err))
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
