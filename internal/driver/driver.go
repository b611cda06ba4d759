// Package driver implements the per-run orchestration: for each input file,
// prepend the prelude's token stream, lex, parse, emit IR, verify, and
// write the module's textual IR to a per-file object path; after every
// file, require that an entry-point
// function was seen, then hand the accumulated object files to the external
// linker. One Options value and one Run call own everything a single
// compilation needs; nothing is process-global.
package driver

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/saltlang/saltc/lang/irgen"
	"github.com/saltlang/saltc/lang/lexer"
	"github.com/saltlang/saltc/lang/parser"
	"github.com/saltlang/saltc/lang/token"
)

// Options is the flag/target state threaded through an entire run, built
// once by internal/maincmd from parsed CLI flags.
type Options struct {
	DebugOutput        bool // --dbo
	DebugOutputVerbose bool // --dbv, implies DebugOutput
	NoStd              bool // --nostd
	Output             string
	OutputSet          bool // whether -o was given explicitly
}

// Result summarizes one Run.
type Result struct {
	ObjectFiles    []string
	EntryPointSeen bool
	HadFileErrors  bool
}

// preludeSource is the standard prelude: extern declarations logically
// prepended to every user input, wired in directly rather than read from
// disk.
const preludeSource = "extern fn print(void* s)\nextern fn scan(void* s, usize size)\n"

// Run compiles every file in order, writing progress to logger when
// opts.DebugOutput (or opts.DebugOutputVerbose, which implies it) is set.
func Run(logger *log.Logger, opts Options, files []string) (*Result, error) {
	res := &Result{}
	var objIndex int

	for _, path := range files {
		objIndex++
		objPath, entryFound, err := compileFile(logger, opts, objIndex, path)
		if err != nil {
			var ife *irgen.FatalError
			var lfe *lexer.FatalError
			if errors.As(err, &ife) || errors.As(err, &lfe) {
				return res, err
			}
			res.HadFileErrors = true
			continue
		}
		if entryFound {
			res.EntryPointSeen = true
		}
		res.ObjectFiles = append(res.ObjectFiles, objPath)
	}

	if !res.EntryPointSeen {
		return res, fmt.Errorf("no entry point function found")
	}
	return res, nil
}

func compileFile(logger *log.Logger, opts Options, objIndex int, path string) (string, bool, error) {
	debugf(logger, opts, "compiling %s", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}

	diags := &token.DiagnosticList{}
	toks, err := lexFile(diags, opts, path, src)
	if err != nil {
		return "", false, err
	}
	verbosef(logger, opts, "%s: %d tokens", path, len(toks))

	p := parser.New(path, toks, diags)
	prog, _ := p.Parse()
	verbosef(logger, opts, "%s: %d extern(s), %d function(s)", path, len(prog.Externs), len(prog.Functions))

	if diags.HasErrors() {
		printDiags(logger, diags)
		return "", false, fmt.Errorf("%s: compile errors", path)
	}

	emitter := irgen.New(path, path, irgen.Options{EntryPoint: "main"}, diags)
	mod, err := emitter.Emit(prog)
	if err != nil {
		printDiags(logger, diags)
		return "", false, err
	}

	if diags.HasErrors() {
		printDiags(logger, diags)
		return "", false, fmt.Errorf("%s: compile errors", path)
	}
	printDiags(logger, diags)

	objPath := fmt.Sprintf("__SaltOutputObjectTmp%d.o", objIndex)
	if err := os.WriteFile(objPath, []byte(mod.String()), 0o644); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", objPath, err)
	}

	return objPath, emitter.EntryPointSeen(), nil
}

// lexFile builds the token stream for one input: the prelude's tokens
// (unless opts.NoStd, with their trailing EOF trimmed) followed by the
// file's own tokens.
func lexFile(diags *token.DiagnosticList, opts Options, path string, src []byte) ([]token.Token, error) {
	var toks []token.Token
	if !opts.NoStd {
		preludeToks, err := lexer.New("prelude.sl", []byte(preludeSource), diags).Lex()
		if err != nil {
			return nil, err
		}
		toks = append(toks, dropTrailingEOF(preludeToks)...)
	}

	fileToks, err := lexer.New(path, src, diags).Lex()
	if err != nil {
		return nil, err
	}
	toks = append(toks, fileToks...)
	return toks, nil
}

func dropTrailingEOF(toks []token.Token) []token.Token {
	for len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func debugf(logger *log.Logger, opts Options, format string, args ...any) {
	if opts.DebugOutput || opts.DebugOutputVerbose {
		logger.Printf(format, args...)
	}
}

func verbosef(logger *log.Logger, opts Options, format string, args ...any) {
	if opts.DebugOutputVerbose {
		logger.Printf(format, args...)
	}
}

func printDiags(logger *log.Logger, diags *token.DiagnosticList) {
	diags.Sort()
	diags.PrintError(logger.Writer())
}
