// Command nexuscc compiles a stream of programs from a file (or stdin) into
// their 256-byte memory images, one hex dump per program.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/nexus-lang/nexuscc/compiler"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nexuscc [options] [file]

Reads a stream of programs (each terminated by '$') from file, or from
stdin if no file is given, and prints the compiled memory image of each.

options:
`,
		)
		flag.PrintDefaults()
		os.Exit(1)
	}
}

var flagVerbose = flag.Bool("v", false, "enable lexer, semant and codegen trace logging")

func main() {
	log.SetPrefix("nexuscc: ")
	log.SetFlags(0)
	flag.Parse()

	var src []byte
	var err error
	if flag.NArg() >= 1 {
		src, err = os.ReadFile(flag.Arg(0))
	} else {
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatalf("could not read input: %v", err)
	}

	exitCode := run(os.Stdout, src, *flagVerbose)
	os.Exit(exitCode)
}

// run compiles src and writes one hex dump (or error line) per program to w,
// returning the process exit code.
func run(w io.Writer, src []byte, trace bool) int {
	c := compiler.New(compiler.WithTrace(trace))
	results, err := c.Compile(context.Background(), string(src))
	if err != nil {
		fmt.Fprintf(w, "compile aborted: %v\n", err)
		return 1
	}

	exitCode := 0
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if r.Err != nil {
			fmt.Fprintf(w, "program %d: error: %v\n", r.ProgramNumber, r.Err)
			exitCode = 1
			continue
		}
		fmt.Fprintf(w, "program %d:\n%s\n", r.ProgramNumber, r.Image.Hex())
	}
	return exitCode
}
