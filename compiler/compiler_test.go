package compiler_test

import (
	"context"
	"testing"

	"github.com/nexus-lang/nexuscc/compiler"
)

func TestCompileSingleProgram(t *testing.T) {
	c := compiler.New()
	results, err := c.Compile(context.Background(), `{ int a a = 1 print(a) }$`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("program 1: got error = %v", results[0].Err)
	}
	if results[0].ProgramNumber != 1 {
		t.Errorf("got ProgramNumber %d, want 1", results[0].ProgramNumber)
	}
}

func TestCompileStreamIsolatesFailures(t *testing.T) {
	c := compiler.New()
	results, err := c.Compile(context.Background(), `{ int a }$ { print(b) }$ { int c }$`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("program 1: unexpected error = %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("program 2: expected an undeclared-identifier error")
	}
	if results[2].Err != nil {
		t.Errorf("program 3: unexpected error = %v", results[2].Err)
	}
}

func TestCompileWithCustomMarker(t *testing.T) {
	c := compiler.New(compiler.WithMarker('#'))
	results, err := c.Compile(context.Background(), `{ int a }#`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("got results = %+v", results)
	}
}

func TestCompileCancelledContext(t *testing.T) {
	c := compiler.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Compile(ctx, `{ int a }$`)
	if err == nil {
		t.Fatal("expected an error from a pre-cancelled context")
	}
}
