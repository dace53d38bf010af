package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidRewardStructure = errors.New("invalid reward structure")

	// Collaborator errors. Callers treat all of them as a signal to take the local path.
	ErrNoAPIKey      = errors.New("api key not configured")
	ErrEmptyResponse = errors.New("empty response")
	ErrNoJSON        = errors.New("no JSON found in response")
)
