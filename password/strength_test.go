package password

import (
	"strings"
	"testing"
)

func TestEvaluate_AllClassesNoPatterns(t *testing.T) {
	result := Evaluate("Tr0ub4dor&3")

	if result.Score != 5 {
		t.Fatalf("expected score 5, got %d", result.Score)
	}
	if !result.IsStrong {
		t.Fatal("expected password to be strong")
	}
	if len(result.Feedback) != 0 {
		t.Fatalf("expected no feedback, got %v", result.Feedback)
	}
}

func TestEvaluate_RepeatedCharactersPenalized(t *testing.T) {
	result := Evaluate("aaaaaaaa")

	// +2 length, +1 lowercase, -1 repeated run.
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}
	if result.IsStrong {
		t.Fatal("repeated-character password must not be strong")
	}

	found := false
	for _, f := range result.Feedback {
		if strings.Contains(f, "repeated") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected repeated-character feedback, got %v", result.Feedback)
	}
}

func TestEvaluate_WeakPrefixPenalized(t *testing.T) {
	for _, pw := range []string{"password1X!", "Qwerty99!x", "admin1234X!", "123abcXY!z", "abcXY12!lm"} {
		result := Evaluate(pw)
		found := false
		for _, f := range result.Feedback {
			if strings.Contains(f, "common") {
				found = true
			}
		}
		if !found {
			t.Fatalf("%q: expected common-pattern feedback, got %v", pw, result.Feedback)
		}
	}
}

func TestEvaluate_ScoreClampedToZero(t *testing.T) {
	// Short, single-class, weak prefix and repeated run.
	result := Evaluate("abccc")
	if result.Score != 0 {
		t.Fatalf("expected clamped score 0, got %d", result.Score)
	}
}

func TestEvaluate_ShortPasswordGetsLengthFeedback(t *testing.T) {
	result := Evaluate("Xy1!")
	// All four class bonuses, no length bonus.
	if result.Score != 4 {
		t.Fatalf("expected score 4, got %d", result.Score)
	}
	if len(result.Feedback) == 0 {
		t.Fatal("expected length feedback for short password")
	}
}

// Appending a character of a class the password lacks must never lower
// the score.
func TestEvaluate_MonotonicAcrossClasses(t *testing.T) {
	cases := []struct{ base, richer string }{
		{"troubador", "troubador1"},
		{"troubador1", "Troubador1"},
		{"Troubador1", "Troubador1!"},
		{"zzghkmpq", "zzghkmpq7"},
	}
	for _, tc := range cases {
		before := Evaluate(tc.base).Score
		after := Evaluate(tc.richer).Score
		if after < before {
			t.Fatalf("score decreased from %d to %d for %q -> %q", before, after, tc.base, tc.richer)
		}
	}
}

func TestHasRepeatedRun(t *testing.T) {
	cases := []struct {
		pw   string
		want bool
	}{
		{"aaab", true},
		{"aab", false},
		{"xyzzzy", true},
		{"", false},
		{"ababab", false},
	}
	for _, tc := range cases {
		if got := HasRepeatedRun(tc.pw); got != tc.want {
			t.Fatalf("HasRepeatedRun(%q) = %v, want %v", tc.pw, got, tc.want)
		}
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	first := Evaluate("Tr0ub4dor&3")
	second := Evaluate("Tr0ub4dor&3")
	if first.Score != second.Score || first.IsStrong != second.IsStrong {
		t.Fatal("Evaluate must be deterministic")
	}
}
