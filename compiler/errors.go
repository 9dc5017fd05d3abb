package compiler

import "errors"

var (
	// ErrUnsupportedRegex indicates a /regex/ pattern outside the subset WebKit accepts.
	ErrUnsupportedRegex = errors.New("unsupported regex")

	// ErrConflictingDomains indicates a rule with both permitted and restricted domains.
	// WebKit triggers cannot carry if-domain and unless-domain together.
	ErrConflictingDomains = errors.New("if-domain and unless-domain cannot be used together")

	// ErrNoResourceTypes indicates a rule whose type restrictions exclude every type.
	ErrNoResourceTypes = errors.New("no resource types left")
)
