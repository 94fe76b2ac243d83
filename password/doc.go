// Package password evaluates candidate password strength. Two evaluators
// exist on purpose: Evaluate is the lightweight heuristic used around
// login forms, EvaluateRegistration adds an entropy floor and hard
// rejection rules for account creation. Both are pure functions.
package password
