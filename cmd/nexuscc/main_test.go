package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunSingleProgram(t *testing.T) {
	var buf bytes.Buffer
	code := run(&buf, []byte(`{ int a a = 1 print(a) }$`), false)
	if code != 0 {
		t.Fatalf("run() exit code = %d, want 0", code)
	}
	out := buf.String()
	if !strings.Contains(out, "program 1:") {
		t.Errorf("output missing program header: %q", out)
	}
	if !strings.Contains(out, "A9 00") {
		t.Errorf("output missing hex dump: %q", out)
	}
}

func TestRunReportsErrorsWithoutAbortingStream(t *testing.T) {
	var buf bytes.Buffer
	code := run(&buf, []byte(`{ int a }$ { print(b) }$`), false)
	if code != 1 {
		t.Fatalf("run() exit code = %d, want 1", code)
	}
	out := buf.String()
	if !strings.Contains(out, "program 1:") {
		t.Errorf("output missing successful program 1: %q", out)
	}
	if !strings.Contains(out, "program 2: error:") {
		t.Errorf("output missing program 2 error: %q", out)
	}
}

func TestRunEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	code := run(&buf, []byte(``), false)
	if code != 0 {
		t.Fatalf("run() exit code = %d, want 0", code)
	}
	if buf.String() != "" {
		t.Errorf("got output %q, want empty", buf.String())
	}
}
