package token_test

import (
	"testing"

	"github.com/nexus-lang/nexuscc/token"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		word string
		want token.Keywords
		ok   bool
	}{
		{"print", token.Print, true},
		{"while", token.While, true},
		{"true", token.True, true},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		got, ok := token.LookupKeyword(tt.word)
		if ok != tt.ok {
			t.Errorf("LookupKeyword(%q) ok = %v, want %v", tt.word, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := token.Token{Kind: token.Digit, Value: 7}
	if got, want := tok.String(), "Digit(7)"; got != want {
		t.Errorf("Token.String() = %q, want %q", got, want)
	}
}

func TestPositionString(t *testing.T) {
	pos := token.Position{Line: 3, Col: 5}
	if got, want := pos.String(), "3:5"; got != want {
		t.Errorf("Position.String() = %q, want %q", got, want)
	}
}
