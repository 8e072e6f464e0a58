package auth

import (
	"testing"
)

func TestHasher_RoundTrip(t *testing.T) {
	hasher := NewHasher(4)

	digest, err := hasher.Hash("Secr3t!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if digest == "Secr3t!" {
		t.Fatal("digest must not equal the plaintext")
	}

	if !hasher.Verify("Secr3t!", digest) {
		t.Error("correct password should verify")
	}
	if hasher.Verify("wrong", digest) {
		t.Error("wrong password must not verify")
	}
}

func TestHasher_MalformedDigest(t *testing.T) {
	hasher := NewHasher(4)

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$broken"} {
		if hasher.Verify("anything", digest) {
			t.Errorf("malformed digest %q must verify as false", digest)
		}
	}
}

func TestHasher_SaltedDigestsDiffer(t *testing.T) {
	hasher := NewHasher(4)

	a, err := hasher.Hash("same password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := hasher.Hash("same password")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two digests of the same password should differ (random salt)")
	}
}

func TestNewHasher_ClampsCost(t *testing.T) {
	// Out-of-range costs fall back to the default rather than failing
	// at hash time.
	hasher := NewHasher(99)
	if _, err := hasher.Hash("pw"); err != nil {
		t.Fatalf("hashing with clamped cost failed: %v", err)
	}
}
