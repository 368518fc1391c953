package compiler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/arnavsurve/pascal/internal/compiler/ast"
	"github.com/arnavsurve/pascal/internal/compiler/emitter"
	"github.com/arnavsurve/pascal/internal/compiler/interp"
	"github.com/arnavsurve/pascal/internal/compiler/lexer"
	"github.com/arnavsurve/pascal/internal/compiler/parser"
	"github.com/arnavsurve/pascal/internal/compiler/scope"
	"github.com/arnavsurve/pascal/internal/compiler/semantic"
	"github.com/arnavsurve/pascal/internal/compiler/symbols"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

// SourceExt is the extension source files must carry.
const SourceExt = ".pas"

// StdinName is the path that selects standard input.
const StdinName = "-"

type Options struct {
	Logger       *slog.Logger
	TraceTokens  bool // log every token at debug level
	TraceSymbols bool // log every scope define and lookup at debug level
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Result is the observable outcome of a successful run.
type Result struct {
	RunID    string
	Source   string
	Program  string
	Bindings []interp.Binding
}

// CheckResult is the outcome of parsing and analysis without evaluation.
type CheckResult struct {
	RunID   string
	Source  string
	Program string
	Globals []symbols.Symbol // global scope in definition order, builtins excluded
}

// RunFile runs the program at path ("-" for standard input).
func RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	src, name, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return Run(ctx, bytes.NewReader(src), name, opts)
}

// Run lexes, parses, analyzes and evaluates one program. Each stage runs
// only if the previous one succeeded.
func Run(ctx context.Context, r io.Reader, source string, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := opts.logger().With("run", runID, "source", source)

	program, _, err := analyze(ctx, r, source, opts, log)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	in := interp.NewInterpreter(interp.WithLogger(log))
	store, err := in.Interpret(program)
	if err != nil {
		return nil, err
	}
	log.Debug("stage done", "stage", "interpret", "elapsed", time.Since(start), "bindings", store.Len())

	return &Result{RunID: runID, Source: source, Program: in.ProgramName(), Bindings: store.Bindings()}, nil
}

// Check parses and analyzes a program without evaluating it.
func Check(ctx context.Context, r io.Reader, source string, opts Options) (*CheckResult, error) {
	runID := uuid.NewString()
	log := opts.logger().With("run", runID, "source", source)

	program, globals, err := analyze(ctx, r, source, opts, log)
	if err != nil {
		return nil, err
	}

	var syms []symbols.Symbol
	for _, sym := range globals.Symbols() {
		if _, builtin := sym.(*symbols.BuiltinType); !builtin {
			syms = append(syms, sym)
		}
	}
	return &CheckResult{RunID: runID, Source: source, Program: program.Name, Globals: syms}, nil
}

// Parse lexes and parses a program.
func Parse(r io.Reader, source string, opts Options) (*ast.Program, error) {
	return parseProgram(r, source, opts, opts.logger())
}

// Tokens returns every token of the source, EOF included.
func Tokens(r io.Reader, source string, opts Options) ([]token.Token, error) {
	return lexer.Tokenize(r, source, lexerOptions(opts, opts.logger())...)
}

// Format renders the program in canonical form.
func Format(r io.Reader, source string, opts Options) (string, error) {
	program, err := Parse(r, source, opts)
	if err != nil {
		return "", err
	}
	return emitter.NewEmitter().Emit(program)
}

// CountComments lexes the source and reports how many comments it holds.
// Format output carries none of them.
func CountComments(r io.Reader, source string) (int, error) {
	l := lexer.NewLexer(r, source)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return 0, err
		}
		if tok.Type == token.TokenEOF {
			return l.Comments(), nil
		}
	}
}

func analyze(ctx context.Context, r io.Reader, source string, opts Options, log *slog.Logger) (*ast.Program, *scope.Scope, error) {
	start := time.Now()
	program, err := parseProgram(r, source, opts, log)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("stage done", "stage", "parse", "elapsed", time.Since(start))
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start = time.Now()
	var tableOpts []scope.Option
	if opts.TraceSymbols {
		tableOpts = append(tableOpts, scope.WithLogger(log))
	}
	analyzer := semantic.NewAnalyzer(scope.NewTable(tableOpts...), semantic.WithLogger(log))
	if err := analyzer.Analyze(program); err != nil {
		return nil, nil, err
	}
	log.Debug("stage done", "stage", "analyze", "elapsed", time.Since(start))

	return program, analyzer.Globals(), nil
}

func parseProgram(r io.Reader, source string, opts Options, log *slog.Logger) (*ast.Program, error) {
	l := lexer.NewLexer(r, source, lexerOptions(opts, log)...)
	p, err := parser.NewParser(l)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

func lexerOptions(opts Options, log *slog.Logger) []lexer.Option {
	if opts.TraceTokens {
		return []lexer.Option{lexer.WithLogger(log)}
	}
	return nil
}

// ReadSource loads a whole source file, or all of standard input for "-".
// It returns the contents and the name positions should carry.
func ReadSource(path string) ([]byte, string, error) {
	if path == StdinName {
		// A console stream is read to the end before lexing starts.
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading standard input: %w", err)
		}
		return b, "<stdin>", nil
	}

	if err := validateExtension(path); err != nil {
		return nil, "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return b, path, nil
}

func validateExtension(path string) error {
	if filepath.Ext(path) != SourceExt {
		return fmt.Errorf("source %q must have %s extension", path, SourceExt)
	}
	return nil
}
