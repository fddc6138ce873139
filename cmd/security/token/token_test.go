package token

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestGenerate_EncodeDecodeRoundTrip(t *testing.T) {
	g := NewGenerator(nil)

	tok, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	s := Encode(tok)
	if len(s) != EncodedLength {
		t.Fatalf("len(Encode)=%d want %d", len(s), EncodedLength)
	}
	if tok.String() != s {
		t.Fatalf("String() mismatch")
	}

	got, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != tok {
		t.Fatalf("round trip mismatch")
	}
}

func TestGenerate_Fresh(t *testing.T) {
	g := NewGenerator(nil)

	seen := make(map[Token]struct{}, 64)
	for i := 0; i < 64; i++ {
		tok, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = struct{}{}
	}
}

func TestGenerate_UsesReader(t *testing.T) {
	src := bytes.Repeat([]byte{7}, Size)
	g := NewGenerator(bytes.NewReader(src))

	tok, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(tok[:], src) {
		t.Fatalf("token does not come from the configured reader")
	}

	if _, err := g.Generate(); err == nil {
		t.Fatalf("expected error once the reader is exhausted")
	}
}

func TestDecode_InvalidFormat(t *testing.T) {
	cases := []string{
		"",
		strings.Repeat("A", 43),
		strings.Repeat("A", 45),
		strings.Repeat("*", 44),
		base64.StdEncoding.EncodeToString(make([]byte, 33)),
		base64.StdEncoding.EncodeToString(make([]byte, 31)) + "A",
	}
	for _, in := range cases {
		if _, err := Decode(in); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("Decode(%q): expected ErrInvalidFormat, got %v", in, err)
		}
	}
}
