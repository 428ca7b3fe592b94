package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tburk/tapevm/internal/compiler"
	"github.com/tburk/tapevm/internal/engine"
	"github.com/tburk/tapevm/internal/ir"
	"github.com/tburk/tapevm/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Optimize  bool
	InputPath string
	MaxSteps  int64
	EOF       string
	Profile   string
	Database  string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <program.bf>",
		Short: "Compile and execute a program",
		Long: `Compile a program and execute it on a fresh machine.

Program output goes to stdout; program input comes from stdin unless
--input names a file. With --db the execution is archived in a SQLite
database under its run token.

Example:
  tapevm run hello.bf
  tapevm run -O --input data.txt --max-steps 1000000 mangle.bf
  tapevm run --db ./runs.db --profile big-tape.cue crunch.bf`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Optimize, "optimize", "O", false, "rewrite recognizable loops before executing")
	cmd.Flags().StringVar(&opts.InputPath, "input", "", "file to read program input from (default stdin)")
	cmd.Flags().Int64Var(&opts.MaxSteps, "max-steps", 0, "abort after this many executed instructions (0 = unlimited)")
	cmd.Flags().StringVar(&opts.EOF, "eof", "", "end-of-input convention (leave|zero|eof255)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "machine profile CUE file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to archive the run in")

	return cmd
}

func runProgram(opts *RunOptions, path string, cmd *cobra.Command) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read program", err)
	}

	program, err := compiler.Compile(string(src), opts.Optimize)
	if err != nil {
		return WrapExitError(ExitFailure, "compile failed", err)
	}

	mopts, err := machineOptions(opts, cmd)
	if err != nil {
		return err
	}

	in, closeIn, err := programInput(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer closeIn()

	// Setup signal handling so Ctrl-C stops a looping program.
	// Use command's context if available (for testing), otherwise create one.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping program", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Debug("executing program", "path", path, "instructions", ir.Count(program), "optimized", opts.Optimize)

	m := engine.New(in, cmd.OutOrStdout(), mopts...)
	rpt, runErr := m.Run(ctx, program)

	// Archive even failed runs; the partial report is still worth keeping.
	if opts.Database != "" && rpt != nil {
		if archiveErr := archiveRun(opts, path, program, rpt); archiveErr != nil {
			if runErr == nil {
				return WrapExitError(ExitCommandError, "failed to archive run", archiveErr)
			}
			slog.Error("failed to archive run", "error", archiveErr)
		}
	}

	switch {
	case runErr == nil:
		slog.Info("run complete",
			"token", rpt.Token,
			"steps", rpt.Steps,
			"output_bytes", rpt.OutputBytes,
			"tape_capacity", rpt.TapeCapacity)
		return nil
	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		return WrapExitError(ExitFailure, "run interrupted", runErr)
	case engine.IsUnderflowError(runErr):
		return NewExitError(ExitFailure, "Cannot move pointer to negative cell!")
	case engine.IsQuotaError(runErr):
		return WrapExitError(ExitFailure, "program exceeded step limit", runErr)
	default:
		return WrapExitError(ExitFailure, "run failed", runErr)
	}
}

// machineOptions assembles engine options from the profile and flags.
// Explicit flags win over profile values.
func machineOptions(opts *RunOptions, cmd *cobra.Command) ([]engine.Option, error) {
	var mopts []engine.Option

	if opts.Profile != "" {
		profile, err := LoadProfile(opts.Profile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load profile", err)
		}
		mopts = append(mopts, profile.Options()...)
	}

	if cmd.Flags().Changed("max-steps") {
		mopts = append(mopts, engine.WithMaxSteps(opts.MaxSteps))
	}
	if opts.EOF != "" {
		mode, err := engine.ParseEOFMode(opts.EOF)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --eof", err)
		}
		mopts = append(mopts, engine.WithEOFMode(mode))
	}

	return mopts, nil
}

// programInput returns the reader serving Input instructions.
func programInput(opts *RunOptions, cmd *cobra.Command) (io.Reader, func(), error) {
	if opts.InputPath == "" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// archiveRun records the execution in the run archive. Uses a fresh context
// so an interrupted run is still recorded.
func archiveRun(opts *RunOptions, programPath string, program []ir.Instruction, rpt *engine.Report) error {
	hash, err := ir.ProgramHash(program)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	counts := make(map[string]int64, len(rpt.OpCounts))
	for op, n := range rpt.OpCounts {
		counts[string(op)] = n
	}

	return st.RecordRun(context.Background(), store.Run{
		Token:          rpt.Token,
		Program:        programPath,
		SourceHash:     hash,
		Optimized:      opts.Optimize,
		Steps:          rpt.Steps,
		OpCounts:       counts,
		OutputBytes:    rpt.OutputBytes,
		TapeCapacity:   int64(rpt.TapeCapacity),
		DurationMicros: rpt.Duration.Microseconds(),
		EngineVersion:  ir.EngineVersion,
		IRVersion:      ir.IRVersion,
	})
}
