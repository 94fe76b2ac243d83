package password

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MinLength is the minimum password length policy.
	MinLength = 8
	// StrongScore is the login-context strength threshold.
	StrongScore = 4
	maxScore    = 5
)

// Prefixes that mark a password as following a common weak pattern,
// matched case-insensitively against the start of the candidate.
var weakPrefixes = []string{"abc", "123", "password", "admin", "qwerty"}

// Result defines a public type used by loginguard APIs.
//
// Result instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Result struct {
	Score    int
	Feedback []string
	IsStrong bool
}

// Evaluate scores a candidate password for login-context flows.
//
// Scoring: +2 for meeting the length policy, +1 per character class
// present (upper, lower, digit, symbol), -1 for a run of three or more
// identical characters, -2 for starting with a common weak prefix. The
// final score is clamped to [0, 5]; IsStrong means score >= 4.
func Evaluate(pw string) Result {
	var feedback []string
	score := 0

	if len(pw) >= MinLength {
		score += 2
	} else {
		feedback = append(feedback, fmt.Sprintf("password must be at least %d characters", MinLength))
	}

	if containsClass(pw, unicode.IsUpper) {
		score++
	}
	if containsClass(pw, unicode.IsLower) {
		score++
	}
	if containsClass(pw, unicode.IsDigit) {
		score++
	}
	if containsClass(pw, isSymbol) {
		score++
	}

	if HasRepeatedRun(pw) {
		score--
		feedback = append(feedback, "avoid repeated characters")
	}

	if hasWeakPrefix(pw) {
		score -= 2
		feedback = append(feedback, "avoid common password patterns")
	}

	score = clamp(score, 0, maxScore)

	return Result{
		Score:    score,
		Feedback: feedback,
		IsStrong: score >= StrongScore,
	}
}

// HasRepeatedRun reports whether any character repeats three or more
// times consecutively.
func HasRepeatedRun(pw string) bool {
	runes := []rune(pw)
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func hasWeakPrefix(pw string) bool {
	lower := strings.ToLower(pw)
	for _, p := range weakPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func containsClass(pw string, class func(rune) bool) bool {
	for _, r := range pw {
		if class(r) {
			return true
		}
	}
	return false
}

func isSymbol(r rune) bool {
	return !unicode.IsUpper(r) && !unicode.IsLower(r) && !unicode.IsDigit(r)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
