// Package compiler drives the full pipeline — lex, parse, analyse, generate,
// render — over a stream of programs concatenated in one source string, each
// terminated by a marker character. Each program is compiled independently:
// a failure in one does not stop the others.
package compiler

import (
	"context"

	"github.com/nexus-lang/nexuscc/codegen"
	"github.com/nexus-lang/nexuscc/lexer"
	"github.com/nexus-lang/nexuscc/parser"
	"github.com/nexus-lang/nexuscc/render"
	"github.com/nexus-lang/nexuscc/semant"
)

// Result is the outcome of compiling a single program out of the stream.
type Result struct {
	ProgramNumber int
	Image         render.Image
	Err           error
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithMarker overrides the end-of-program marker character (default '$').
func WithMarker(marker rune) Option {
	return func(c *Compiler) { c.marker = marker }
}

// WithTrace turns on the lexer, semant and codegen debug logging for every
// program this Compiler compiles.
func WithTrace(on bool) Option {
	return func(c *Compiler) { c.trace = on }
}

// Compiler holds configuration shared across every program in a stream.
type Compiler struct {
	marker rune
	trace  bool
}

// New returns a Compiler with the given options applied.
func New(opts ...Option) *Compiler {
	c := &Compiler{marker: '$'}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile runs the full pipeline over every program in source, returning one
// Result per program. It stops early only if ctx is cancelled between
// programs.
func (c *Compiler) Compile(ctx context.Context, source string) ([]Result, error) {
	lexer.SetTrace(c.trace)
	semant.SetTrace(c.trace)
	codegen.SetTrace(c.trace)

	var lx *lexer.Lexer
	if c.marker != 0 {
		lx = lexer.NewWithMarker(source, c.marker)
	} else {
		lx = lexer.New(source)
	}

	var results []Result
	programNumber := 1

	for lx.HasProgramToLex() {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := Result{ProgramNumber: programNumber}
		result.Image, result.Err = c.compileOne(lx)
		results = append(results, result)
		programNumber++
	}
	return results, nil
}

func (c *Compiler) compileOne(lx *lexer.Lexer) (render.Image, error) {
	toks, err := lx.LexProgram()
	if err != nil {
		return render.Image{}, err
	}

	cst, err := parser.ParseProgram(toks)
	if err != nil {
		return render.Image{}, err
	}

	analysis, err := semant.Analyze(cst)
	if err != nil {
		return render.Image{}, err
	}

	bytes, err := codegen.Generate(analysis.Root, analysis.Table)
	if err != nil {
		return render.Image{}, err
	}
	return render.Image(bytes), nil
}
