package codegen_test

import (
	"strings"
	"testing"

	"github.com/nexus-lang/nexuscc/codegen"
	"github.com/nexus-lang/nexuscc/lexer"
	"github.com/nexus-lang/nexuscc/parser"
	"github.com/nexus-lang/nexuscc/semant"
)

func generate(t *testing.T, src string) ([256]byte, error) {
	t.Helper()
	toks, err := lexer.New(src).LexProgram()
	if err != nil {
		t.Fatalf("LexProgram() error = %v", err)
	}
	cst, err := parser.ParseProgram(toks)
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	res, err := semant.Analyze(cst)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return codegen.Generate(res.Root, res.Table)
}

// TestEmptyProgram covers S1: an empty program is just the halt byte
// followed by zeroed memory.
func TestEmptyProgram(t *testing.T) {
	img, err := generate(t, `{ }$`)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i, b := range img {
		if b != 0x00 {
			t.Fatalf("cell %d: got %#02x, want 0x00", i, b)
		}
	}
}

// TestSingleVarDecl covers S2: a single int declaration backpatches its
// variable slot to the first free address after the halt byte.
func TestSingleVarDecl(t *testing.T) {
	img, err := generate(t, `{ int a }$`)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := []byte{0xA9, 0x00, 0x8D, 0x06, 0x00, 0x00}
	for i, b := range want {
		if img[i] != b {
			t.Fatalf("cell %d: got %#02x, want %#02x (full prefix %X)", i, img[i], b, img[:6])
		}
	}
}

// TestStringInterningSharesAddress covers P3: interning the same literal
// twice returns the same address and does not grow the heap a second time.
func TestStringInterningSharesAddress(t *testing.T) {
	img, err := generate(t, `{ print("hi") print("hi") }$`)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// Both A0 (load Y immediate) occurrences must carry the same address.
	var addrs []byte
	for i := 0; i < len(img)-1; i++ {
		if img[i] == 0xA0 {
			addrs = append(addrs, img[i+1])
		}
	}
	if len(addrs) != 2 {
		t.Fatalf("got %d A0 occurrences, want 2 (img=%X)", len(addrs), img)
	}
	if addrs[0] != addrs[1] {
		t.Errorf("interned string addresses differ: %#02x vs %#02x", addrs[0], addrs[1])
	}
}

// TestDeadCodeElision covers S4: a literal-false if guards dead code that
// must never be emitted.
func TestDeadCodeElision(t *testing.T) {
	img, err := generate(t, `{ if false { int a } }$`)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i, b := range img {
		if b != 0x00 {
			t.Fatalf("cell %d: got %#02x, want 0x00 (dead code must emit nothing)", i, b)
		}
	}
}

// TestWhileLoopBackBranch covers S5: a while loop ends with the
// unconditional back-branch tail using the known-zero cell 0xFF.
func TestWhileLoopBackBranch(t *testing.T) {
	img, err := generate(t, `{ while (1 != 2) { } }$`)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	tail := []byte{0xA2, 0x01, 0xEC, 0xFF, 0x00, 0xD0}
	idx := indexOfSubslice(img[:], tail)
	if idx < 0 {
		t.Fatalf("back-branch tail %X not found in image %X", tail, img)
	}
	if img[255] != 0x00 {
		t.Errorf("cell 0xFF: got %#02x, want 0x00 (known-zero sentinel)", img[255])
	}
}

// TestOverflowOnCollidingProgram covers S6: a program whose variable
// declarations and string literal together need more than the 256-byte image
// must fail, not silently corrupt.
func TestOverflowOnCollidingProgram(t *testing.T) {
	var b strings.Builder
	b.WriteString("{ ")
	letters := "abcdefghijklmnopqrtuvwxyz"
	for _, c := range letters {
		b.WriteString("int ")
		b.WriteRune(c)
		b.WriteString(" ")
	}
	b.WriteString("string s s = \"01234567890123456789012345678901234567890123456789012345678901234567890123456789012345678901234567890123456789012345678901234567890123456789012345678901234567890123456789012345678901234567890123456789\" }$")

	_, err := generate(t, b.String())
	if err == nil {
		t.Fatal("expected an overflow error for a program that cannot fit in 256 bytes")
	}
}

// TestDeterministic covers P5: compiling the same source twice yields
// byte-identical images.
func TestDeterministic(t *testing.T) {
	const src = `{ int a a = 1 while (a != 5) { a = 1 + a } print(a) }$`
	first, err := generate(t, src)
	if err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	second, err := generate(t, src)
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if first != second {
		t.Fatalf("got non-deterministic images:\n%X\n%X", first, second)
	}
}

func indexOfSubslice(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
