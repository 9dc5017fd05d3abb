package blocker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedVersion indicates an unknown Safari version.
	ErrUnsupportedVersion = errors.New("unsupported safari version")

	// ErrUnsupportedFormat indicates an unknown advanced blocking format.
	ErrUnsupportedFormat = errors.New("unsupported advanced blocking format")
)

// Version is the target Safari version. Versions are ordered.
type Version int

const (
	Safari11 Version = 11
	Safari12 Version = 12
	Safari13 Version = 13
	Safari14 Version = 14
	Safari15 Version = 15
	Safari16 Version = 16
)

// DefaultVersion is used when nothing else is configured.
const DefaultVersion = Safari13

const (
	rulesLimit         = 50000
	extendedRulesLimit = 150000
)

// ParseVersion resolves a numeric Safari version.
func ParseVersion(v int) (Version, error) {
	version := Version(v)
	if !version.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	return version, nil
}

// Valid reports whether v is a known version.
func (v Version) Valid() bool {
	return v >= Safari11 && v <= Safari16
}

// RulesLimit returns the maximum number of entries a content blocker may hold.
func (v Version) RulesLimit() int {
	if v >= Safari15 {
		return extendedRulesLimit
	}
	return rulesLimit
}

// SupportsPing reports whether the "ping" resource type is available.
func (v Version) SupportsPing() bool {
	return v >= Safari14
}

// SupportsWebsocket reports whether the "websocket" resource type is available.
func (v Version) SupportsWebsocket() bool {
	return v >= Safari15
}

func (v Version) String() string {
	return fmt.Sprintf("safari%d", int(v))
}

// AdvancedFormat selects how advanced blocking rules are delivered.
type AdvancedFormat string

const (
	// FormatJSON embeds advanced rules as compiled entries.
	FormatJSON AdvancedFormat = "json"
	// FormatText passes advanced rules through as plain rule text.
	FormatText AdvancedFormat = "txt"
)

// ParseAdvancedFormat resolves a format identifier. An empty string means FormatJSON.
func ParseAdvancedFormat(s string) (AdvancedFormat, error) {
	switch AdvancedFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Valid reports whether f is a known format.
func (f AdvancedFormat) Valid() bool {
	return f == FormatJSON || f == FormatText
}
