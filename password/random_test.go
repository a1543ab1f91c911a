package password

import (
	"strings"
	"testing"
)

func TestGenerateContainsAllClasses(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := Generate(12)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(pw) != 12 {
			t.Fatalf("length = %d, want 12", len(pw))
		}
		for _, class := range []string{upperChars, lowerChars, digitChars, symbolChars} {
			if !strings.ContainsAny(pw, class) {
				t.Errorf("password %q missing class %q", pw, class[:3])
			}
		}
	}
}

func TestGenerateShortLengths(t *testing.T) {
	// Below four characters the class guarantee cannot hold, but generation
	// still succeeds with the requested length.
	for _, n := range []int{1, 2, 3} {
		pw, err := Generate(n)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}
		if len(pw) != n {
			t.Errorf("Generate(%d) length = %d", n, len(pw))
		}
	}
	if _, err := Generate(0); err == nil {
		t.Error("Generate(0) should fail")
	}
}

func TestGenerateIsNotDeterministic(t *testing.T) {
	a, _ := Generate(16)
	b, _ := Generate(16)
	if a == b {
		t.Error("two generated passwords should differ")
	}
}

func TestToken(t *testing.T) {
	tok, err := Token(32)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if len(tok) != 64 {
		t.Errorf("hex length = %d, want 64", len(tok))
	}
	other, _ := Token(32)
	if tok == other {
		t.Error("tokens should be unique")
	}
}

func TestHashSHA256(t *testing.T) {
	// Stable digest; stores depend on this for lookups.
	got := HashSHA256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("HashSHA256 = %s, want %s", got, want)
	}
	if HashSHA256("abc") != got {
		t.Error("digest must be deterministic")
	}
}
