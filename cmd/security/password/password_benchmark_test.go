package password

import "testing"

func BenchmarkDerive_DefaultConfig(b *testing.B) {
	h := testHasher(b)
	p := clientHashFor("this is a strong password 123!")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := h.Derive(p); err != nil {
			b.Fatalf("Derive error: %v", err)
		}
	}
}

func BenchmarkVerify_DefaultConfig(b *testing.B) {
	h := testHasher(b)
	p := clientHashFor("this is a strong password 123!")
	hp, err := h.Derive(p)
	if err != nil {
		b.Fatalf("Derive error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ok, err := h.VerifyStored(p, hp)
		if err != nil || !ok {
			b.Fatalf("Verify failed: ok=%v err=%v", ok, err)
		}
	}
}
