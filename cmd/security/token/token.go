package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

const (
	// Size is the raw token length in bytes.
	Size = 32
	// EncodedLength is the length of the base64 text form.
	EncodedLength = 44
)

// Token is a raw session token.
type Token [Size]byte

// String returns the base64 text form.
func (t Token) String() string { return Encode(t) }

// Generator produces fresh tokens. It is safe for concurrent use
// as long as its reader is.
type Generator struct {
	rand io.Reader
}

// NewGenerator builds a Generator. A nil rand uses crypto/rand.Reader.
func NewGenerator(rnd io.Reader) *Generator {
	if rnd == nil {
		rnd = rand.Reader
	}
	return &Generator{rand: rnd}
}

// Generate fills a new token from the generator's random source.
func (g *Generator) Generate() (Token, error) {
	var t Token
	if _, err := io.ReadFull(g.rand, t[:]); err != nil {
		return Token{}, fmt.Errorf("token: read random: %w", err)
	}
	return t, nil
}

// Encode returns the 44-char standard base64 form of t.
func Encode(t Token) string {
	return base64.StdEncoding.EncodeToString(t[:])
}

// Decode parses the 44-char text form.
func Decode(s string) (Token, error) {
	if len(s) != EncodedLength {
		return Token{}, ErrInvalidFormat
	}
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil || len(b) != Size {
		return Token{}, ErrInvalidFormat
	}
	var t Token
	copy(t[:], b)
	return t, nil
}
