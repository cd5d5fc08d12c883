package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}
	if !Verify("correct horse battery staple", encoded) {
		t.Fatal("verify should succeed for the original password")
	}
	if Verify("wrong password", encoded) {
		t.Fatal("verify should fail for a different password")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"$argon2id$v=19$m=65536,t=1,p=4$짜짜짜$hash",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"plain-text",
	} {
		if Verify("anything", encoded) {
			t.Fatalf("verify should reject %q", encoded)
		}
	}
}
