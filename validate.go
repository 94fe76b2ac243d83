package loginguard

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hewenyu/loginguard/password"
)

var (
	fieldValidator = validator.New()
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
)

// ValidateLoginForm checks login input against syntactic rules and
// returns a field-name-to-message map, empty when valid. Pure: no state
// is read or written, and both fields are always checked so a caller can
// render every error at once.
//
// Login validation is intentionally lighter than registration: it
// enforces only identifier syntax and the minimum password length.
func ValidateLoginForm(identifier, pw string) map[string]string {
	errs := make(map[string]string)

	switch {
	case strings.TrimSpace(identifier) == "":
		errs["identifier"] = "enter a username or email"
	case strings.Contains(identifier, "@"):
		if fieldValidator.Var(identifier, "email") != nil {
			errs["identifier"] = "enter a valid email address"
		}
	default:
		if !usernameRegex.MatchString(identifier) {
			errs["identifier"] = "username must be 3-20 letters, digits, _ or -"
		}
	}

	switch {
	case pw == "":
		errs["password"] = "enter a password"
	case len(pw) < password.MinLength:
		errs["password"] = "password must be at least 8 characters"
	}

	return errs
}

// ValidateRegistrationForm checks registration input: identifier syntax
// as in login, the registration-grade strength rules, and the confirm
// field. Returns the same field-error map shape as ValidateLoginForm.
func ValidateRegistrationForm(identifier, pw, confirm string) map[string]string {
	errs := ValidateLoginForm(identifier, pw)

	if _, taken := errs["password"]; !taken && pw != "" {
		username := identifier
		if at := strings.IndexByte(identifier, '@'); at > 0 {
			username = identifier[:at]
		}
		result := password.EvaluateRegistration(pw, username)
		if len(result.Rejections) > 0 {
			errs["password"] = result.Rejections[0]
		} else if !result.IsStrong {
			errs["password"] = "choose a stronger password"
		}
	}

	if confirm == "" {
		errs["confirm"] = "confirm the password"
	} else if confirm != pw {
		errs["confirm"] = "passwords do not match"
	}

	return errs
}

// EvaluatePassword re-exports the login-context strength evaluator so UI
// callers only import loginguard.
func EvaluatePassword(pw string) password.Result {
	return password.Evaluate(pw)
}

// EvaluateRegistrationPassword re-exports the registration evaluator.
func EvaluateRegistrationPassword(pw, username string) password.RegistrationResult {
	return password.EvaluateRegistration(pw, username)
}
