package password

import (
	"math"
	"strings"
	"unicode"
)

const (
	// RegistrationMinScore is the heuristic score floor at registration.
	RegistrationMinScore = 3
	// MinEntropyBits is the entropy floor at registration.
	MinEntropyBits = 50

	sequentialRunLimit = 4
)

// RegistrationResult defines a public type used by loginguard APIs.
//
// RegistrationResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RegistrationResult struct {
	Score       int
	EntropyBits float64
	Feedback    []string
	Rejections  []string
	IsStrong    bool
}

// EvaluateRegistration scores a candidate password for account creation.
// On top of the heuristic score it computes Shannon-style entropy over
// the character pool actually used and applies hard rejections: the
// password may not contain the username, a sequential run of four or
// more ascending or descending characters, or any character repeated
// three or more times. Rejections are messages, not score penalties;
// a password with any rejection is never strong.
func EvaluateRegistration(pw, username string) RegistrationResult {
	base := Evaluate(pw)

	result := RegistrationResult{
		Score:       base.Score,
		EntropyBits: EntropyBits(pw),
		Feedback:    base.Feedback,
	}

	if username != "" && strings.Contains(strings.ToLower(pw), strings.ToLower(username)) {
		result.Rejections = append(result.Rejections, "password must not contain the username")
	}
	if hasSequentialRun(pw, sequentialRunLimit) {
		result.Rejections = append(result.Rejections, "password must not contain sequential characters")
	}
	if HasRepeatedRun(pw) {
		result.Rejections = append(result.Rejections, "password must not repeat a character three or more times")
	}

	result.IsStrong = result.Score >= RegistrationMinScore &&
		result.EntropyBits >= MinEntropyBits &&
		len(result.Rejections) == 0

	return result
}

// EntropyBits estimates password entropy as length * log2(pool), where
// the pool is the union of character classes present. An upper bound on
// real entropy, which is why it is paired with the rejection rules.
func EntropyBits(pw string) float64 {
	if pw == "" {
		return 0
	}

	pool := 0
	if containsClass(pw, unicode.IsDigit) {
		pool += 10
	}
	if containsClass(pw, unicode.IsLower) {
		pool += 26
	}
	if containsClass(pw, unicode.IsUpper) {
		pool += 26
	}
	if containsClass(pw, isSymbol) {
		pool += 32
	}
	if pool == 0 {
		return 0
	}

	return float64(len([]rune(pw))) * math.Log2(float64(pool))
}

func hasSequentialRun(pw string, limit int) bool {
	runes := []rune(strings.ToLower(pw))
	if len(runes) < limit {
		return false
	}

	asc, desc := 1, 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1]+1 {
			asc++
		} else {
			asc = 1
		}
		if runes[i] == runes[i-1]-1 {
			desc++
		} else {
			desc = 1
		}
		if asc >= limit || desc >= limit {
			return true
		}
	}
	return false
}
