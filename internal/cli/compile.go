package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tburk/tapevm/internal/compiler"
	"github.com/tburk/tapevm/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Optimize bool
	Output   string // output file path
}

// CompilationResult holds the compiled program and its identity.
type CompilationResult struct {
	SourceHash   string           `json:"source_hash"`
	Instructions int              `json:"instructions"`
	Optimized    bool             `json:"optimized"`
	IRVersion    string           `json:"ir_version"`
	Program      []ir.Instruction `json:"program"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <program.bf>",
		Short: "Compile a program to its instruction listing",
		Long: `Compile a program and print the resulting instructions.

Text format prints a readable listing; JSON format carries the canonical
program dump used for source-addressed identity. With -o the canonical
JSON is also written to a file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Optimize, "optimize", "O", false, "rewrite recognizable loops")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path for canonical JSON")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return outputCompileError(formatter, ErrCodeReadFailed, fmt.Sprintf("reading program: %v", err))
	}

	formatter.VerboseLog("Compiling %s (%d bytes)", path, len(src))

	program, err := compiler.Compile(string(src), opts.Optimize)
	if err != nil {
		var parseErr *compiler.ParseError
		if errors.As(err, &parseErr) {
			return outputCompileError(formatter, ErrCodeParse, parseErr.Error())
		}
		return outputCompileError(formatter, ErrCodeGeneric, err.Error())
	}

	hash, err := ir.ProgramHash(program)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing program: %v", err))
	}

	result := &CompilationResult{
		SourceHash:   hash,
		Instructions: ir.Count(program),
		Optimized:    opts.Optimize,
		IRVersion:    ir.IRVersion,
		Program:      program,
	}

	// Write canonical JSON to file if --output specified
	if opts.Output != "" {
		if err := writeCanonicalIR(program, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d instruction(s), hash %s\n\n",
		result.Instructions, result.SourceHash[:12])
	fmt.Fprintln(formatter.Writer, ir.Listing(result.Program))

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote canonical IR to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// writeCanonicalIR writes the program to a file in canonical JSON format,
// the same bytes ProgramHash is computed over.
func writeCanonicalIR(program []ir.Instruction, filename string) error {
	data, err := ir.MarshalCanonical(program)
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
