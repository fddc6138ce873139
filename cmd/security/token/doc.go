// Package token issues opaque session tokens.
//
// A token is 32 bytes read from a CSPRNG and carries no meaning of its own;
// the server recognizes it only by lookup. Its text form is standard base64
// and is always EncodedLength characters long.
//
// The default source is crypto/rand.Reader, which the operating system
// reseeds from its entropy pool.
package token
