package parser

import "errors"

var (
	// ErrUnknownModifier indicates a $modifier the parser does not know.
	ErrUnknownModifier = errors.New("unknown modifier")

	// ErrUnsupportedModifier indicates a known $modifier content blockers cannot express.
	ErrUnsupportedModifier = errors.New("unsupported modifier")

	// ErrInvalidDomain indicates a malformed domain in a domain list.
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrInvalidPattern indicates a malformed URL pattern.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNonASCII indicates text that stays non-ASCII after punycode conversion.
	ErrNonASCII = errors.New("non-ascii characters")

	// ErrInvalidSelector indicates a malformed cosmetic rule body.
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrInvalidScriptlet indicates a malformed //scriptlet(...) call.
	ErrInvalidScriptlet = errors.New("invalid scriptlet")

	// ErrUnsupportedRule indicates a rule type content blockers cannot express.
	ErrUnsupportedRule = errors.New("unsupported rule")
)
