package password

import (
	"encoding/base64"
	"strings"
)

// ClientHash is the client's own 32-byte pre-hash of the plaintext password.
type ClientHash []byte

// ParseClientHash decodes the wire form of a client pre-hash.
//
// Both the padded 44-char form and the unpadded 43-char form are accepted.
// The decoded length decides validity, not the string length.
func ParseClientHash(s string) (ClientHash, error) {
	s = strings.TrimSpace(s)

	var enc *base64.Encoding
	switch len(s) {
	case 44:
		enc = base64.StdEncoding
	case 43:
		enc = base64.RawStdEncoding
	default:
		return nil, ErrInvalidClientHash
	}

	b, err := enc.Strict().DecodeString(s)
	if err != nil || len(b) != ClientHashLength {
		return nil, ErrInvalidClientHash
	}
	return ClientHash(b), nil
}

// String returns the padded wire form.
func (c ClientHash) String() string {
	return base64.StdEncoding.EncodeToString(c)
}
