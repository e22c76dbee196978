package render_test

import (
	"testing"

	"github.com/nexus-lang/nexuscc/render"
)

func TestHex(t *testing.T) {
	var img render.Image
	img[0] = 0xA9
	img[1] = 0x00
	img[255] = 0xFF

	got := img.Hex()
	wantLen := 256*2 + 255
	if len(got) != wantLen {
		t.Fatalf("got length %d, want %d", len(got), wantLen)
	}
	if got[:8] != "A9 00 00" {
		t.Errorf("got prefix %q, want \"A9 00 00\"", got[:8])
	}
	if got[len(got)-2:] != "FF" {
		t.Errorf("got suffix %q, want \"FF\"", got[len(got)-2:])
	}
}
