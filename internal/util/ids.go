package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewID returns a fresh nanoid for jobs and correlation tracking.
// Falls back to a constant on generator failure so callers never
// have to branch on an error for a best-effort identifier.
func NewID() string {
	id, err := gonanoid.New()
	if err != nil {
		return "unidentified"
	}
	return id
}

// NewCorrelationID returns a nanoid prefixed for log readability.
func NewCorrelationID() string {
	return "corr_" + NewID()
}
