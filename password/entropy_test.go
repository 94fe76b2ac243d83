package password

import (
	"math"
	"strings"
	"testing"
)

func TestEntropyBits(t *testing.T) {
	cases := []struct {
		pw   string
		want float64
	}{
		{"", 0},
		{"aaaaaaaa", 8 * math.Log2(26)},
		{"abcdefgh1", 9 * math.Log2(36)},
		{"Tr0ub4dor&3", 11 * math.Log2(94)},
	}
	for _, tc := range cases {
		got := EntropyBits(tc.pw)
		if math.Abs(got-tc.want) > 0.01 {
			t.Fatalf("EntropyBits(%q) = %.2f, want %.2f", tc.pw, got, tc.want)
		}
	}
}

func TestEvaluateRegistration_Strong(t *testing.T) {
	result := EvaluateRegistration("Tr0ub4dor&3", "alice")

	if len(result.Rejections) != 0 {
		t.Fatalf("unexpected rejections: %v", result.Rejections)
	}
	if result.EntropyBits < MinEntropyBits {
		t.Fatalf("expected entropy above %v bits, got %.1f", MinEntropyBits, result.EntropyBits)
	}
	if !result.IsStrong {
		t.Fatal("expected strong registration password")
	}
}

func TestEvaluateRegistration_RejectsUsernameSubstring(t *testing.T) {
	result := EvaluateRegistration("xXalice42!Zq", "Alice")

	if result.IsStrong {
		t.Fatal("password containing username must not be strong")
	}
	assertRejection(t, result, "username")
}

func TestEvaluateRegistration_RejectsSequentialRun(t *testing.T) {
	for _, pw := range []string{"Zq!abcd99x", "Xw&4321mmQ1"} {
		result := EvaluateRegistration(pw, "bob")
		assertRejection(t, result, "sequential")
	}
}

func TestEvaluateRegistration_NoSequentialRejectionForShortRuns(t *testing.T) {
	// "abc" is three in a row, below the limit of four.
	result := EvaluateRegistration("Zq!abc99xW", "bob")
	for _, r := range result.Rejections {
		if strings.Contains(r, "sequential") {
			t.Fatalf("three-character run must not be rejected: %v", result.Rejections)
		}
	}
}

func TestEvaluateRegistration_RejectsRepeatedRun(t *testing.T) {
	result := EvaluateRegistration("Zq!aaa99xW", "bob")
	assertRejection(t, result, "repeat")
}

func TestEvaluateRegistration_LowEntropyNotStrong(t *testing.T) {
	// Single class, short: heuristic score may pass but entropy cannot.
	result := EvaluateRegistration("zkwqmpfh", "bob")
	if result.EntropyBits >= MinEntropyBits {
		t.Fatalf("expected low entropy, got %.1f", result.EntropyBits)
	}
	if result.IsStrong {
		t.Fatal("low-entropy password must not be strong")
	}
}

func assertRejection(t *testing.T, result RegistrationResult, fragment string) {
	t.Helper()
	for _, r := range result.Rejections {
		if strings.Contains(r, fragment) {
			return
		}
	}
	t.Fatalf("expected rejection containing %q, got %v", fragment, result.Rejections)
}
