// Package password derives and verifies stored account credentials.
//
// Clients never send a plaintext password. They send their own 32-byte
// pre-hash (ClientHash), which this package stretches with PBKDF2-HMAC-SHA256
// under a fresh 16-byte salt and a deployment-wide iteration count.
//
// Security notes:
// - Verification recomputes the key and compares in constant time.
// - A mismatch is (false, nil); only malformed inputs produce an error.
package password
