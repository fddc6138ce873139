package password

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func testHasher(t testing.TB) *Hasher {
	t.Helper()
	h, err := NewHasher(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	return h
}

func clientHashFor(pw string) []byte {
	sum := sha256.Sum256([]byte(pw))
	return sum[:]
}

func TestDeriveAndVerify_OK(t *testing.T) {
	h := testHasher(t)
	p := clientHashFor("correct horse battery staple")

	hp, err := h.Derive(p)
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}
	if len(hp.Salt) != SaltLength || len(hp.Hash) != KeyLength {
		t.Fatalf("unexpected lengths: salt=%d hash=%d", len(hp.Salt), len(hp.Hash))
	}
	if hp.Iterations != MinIterations {
		t.Fatalf("iterations=%d want %d", hp.Iterations, MinIterations)
	}

	ok, err := h.VerifyStored(p, hp)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestVerify_WrongClientHash(t *testing.T) {
	h := testHasher(t)

	hp, err := h.Derive(clientHashFor("right"))
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}

	ok, err := h.VerifyStored(clientHashFor("wrong"), hp)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestVerify_SingleBitFlipFails(t *testing.T) {
	h := testHasher(t)
	p := clientHashFor("bit flips")

	hp, err := h.Derive(p)
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}

	// One flip per byte position, rotating the bit.
	for i := range hp.Hash {
		hash := bytes.Clone(hp.Hash)
		hash[i] ^= 1 << (i % 8)
		ok, err := h.Verify(p, hp.Salt, hp.Iterations, hash)
		if err != nil || ok {
			t.Fatalf("hash flip at byte %d: ok=%v err=%v", i, ok, err)
		}
	}
	for i := range hp.Salt {
		salt := bytes.Clone(hp.Salt)
		salt[i] ^= 1 << (i % 8)
		ok, err := h.Verify(p, salt, hp.Iterations, hp.Hash)
		if err != nil || ok {
			t.Fatalf("salt flip at byte %d: ok=%v err=%v", i, ok, err)
		}
	}
}

func TestDerive_FreshSaltEachCall(t *testing.T) {
	h := testHasher(t)
	p := clientHashFor("same input")

	a, err := h.Derive(p)
	if err != nil {
		t.Fatalf("Derive a: %v", err)
	}
	b, err := h.Derive(p)
	if err != nil {
		t.Fatalf("Derive b: %v", err)
	}
	if bytes.Equal(a.Salt, b.Salt) || bytes.Equal(a.Hash, b.Hash) {
		t.Fatalf("expected distinct salt and hash across derivations")
	}
}

func TestDerive_DeterministicForFixedSalt(t *testing.T) {
	salt := bytes.Repeat([]byte{0x42}, SaltLength)
	h, err := NewHasher(DefaultConfig(), bytes.NewReader(append(bytes.Clone(salt), salt...)))
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	p := clientHashFor("deterministic")

	a, err := h.Derive(p)
	if err != nil {
		t.Fatalf("Derive a: %v", err)
	}
	b, err := h.Derive(p)
	if err != nil {
		t.Fatalf("Derive b: %v", err)
	}
	if !bytes.Equal(a.Hash, b.Hash) {
		t.Fatalf("expected equal hashes for equal (salt, iterations, input)")
	}
}

func TestDerive_RandFailure(t *testing.T) {
	h, err := NewHasher(DefaultConfig(), bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	if _, err := h.Derive(clientHashFor("x")); err == nil {
		t.Fatalf("expected error on exhausted rand source")
	}
}

func TestVerify_MalformedLengths(t *testing.T) {
	h := testHasher(t)
	p := clientHashFor("x")
	salt := make([]byte, SaltLength)
	hash := make([]byte, KeyLength)

	cases := []struct {
		name string
		p    []byte
		salt []byte
		hash []byte
	}{
		{name: "short client hash", p: p[:31], salt: salt, hash: hash},
		{name: "short salt", p: p, salt: salt[:15], hash: hash},
		{name: "long hash", p: p, salt: salt, hash: append(bytes.Clone(hash), 0)},
	}
	for _, tc := range cases {
		ok, err := h.Verify(tc.p, tc.salt, MinIterations, tc.hash)
		if !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("%s: expected ErrInvalidLength, got %v", tc.name, err)
		}
		if ok {
			t.Fatalf("%s: expected false", tc.name)
		}
	}

	if _, err := h.Verify(p, salt, 0, hash); !errors.Is(err, ErrInvalidIterations) {
		t.Fatalf("expected ErrInvalidIterations, got %v", err)
	}
	if _, err := h.Derive(p[:10]); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("Derive: expected ErrInvalidLength, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if _, err := NewHasher(Config{Iterations: 1000}, nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestParseClientHash(t *testing.T) {
	raw := clientHashFor("pw")
	padded := base64.StdEncoding.EncodeToString(raw)
	unpadded := base64.RawStdEncoding.EncodeToString(raw)

	if len(padded) != 44 || len(unpadded) != 43 {
		t.Fatalf("fixture lengths: %d %d", len(padded), len(unpadded))
	}

	for _, in := range []string{padded, unpadded} {
		got, err := ParseClientHash(in)
		if err != nil {
			t.Fatalf("ParseClientHash(%q): %v", in, err)
		}
		if !bytes.Equal(got, raw) {
			t.Fatalf("decoded bytes mismatch for %q", in)
		}
		if got.String() != padded {
			t.Fatalf("String()=%q want %q", got.String(), padded)
		}
	}

	bad := []string{
		"",
		"short",
		strings.Repeat("A", 42),
		strings.Repeat("!", 44),
		base64.StdEncoding.EncodeToString(make([]byte, 31)) + "A",
		base64.StdEncoding.EncodeToString(make([]byte, 33)),
	}
	for _, in := range bad {
		if _, err := ParseClientHash(in); !errors.Is(err, ErrInvalidClientHash) {
			t.Fatalf("ParseClientHash(%q): expected ErrInvalidClientHash, got %v", in, err)
		}
	}
}
