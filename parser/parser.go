package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

const minRuleLength = 3

// ParseRule parses a single line of canonical rule text.
// Returns nil, nil if the line is empty, a comment or not a rule at all.
func ParseRule(text string) (Rule, error) {
	if text == "" || strings.HasPrefix(text, "!") || strings.HasPrefix(text, " ") || strings.Contains(text, " - ") {
		return nil, nil
	}
	if utf8.RuneCountInString(text) < minRuleLength {
		return nil, nil
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrInvalidPattern)
	}

	if idx, marker := FindCosmeticMarker(text); idx != -1 {
		return parseCosmeticRule(text, idx, marker)
	}
	return parseNetworkRule(text)
}

func parseNetworkRule(text string) (*NetworkRule, error) {
	rule := &NetworkRule{Text: text}

	// 1. Check for exception
	body := text
	if strings.HasPrefix(body, "@@") {
		rule.Exception = true
		body = body[2:]
	}

	// 2. Check for modifiers
	pattern, options := splitOptions(body)
	if options != "" {
		if err := parseModifiers(options, &rule.Modifiers); err != nil {
			return nil, err
		}
	}

	if pattern == "" && options == "" {
		return nil, fmt.Errorf("%w: empty rule", ErrInvalidPattern)
	}

	// 3. Validate modifiers that only make sense on one side
	m := rule.Modifiers
	if !rule.Exception && (m.Elemhide || m.Generichide || m.Genericblock || m.Jsinject || m.Urlblock || m.Content) {
		return nil, fmt.Errorf("%w: exception-only modifier on a blocking rule", ErrUnsupportedModifier)
	}

	// 4. Punycode the host part
	pattern, err := punycodePattern(pattern)
	if err != nil {
		return nil, err
	}
	rule.Pattern = pattern

	if m.Badfilter {
		rule.Badfilter = badfilterTarget(text)
	}

	return rule, nil
}

// splitOptions separates the URL pattern from the modifiers string.
func splitOptions(s string) (pattern, options string) {
	if strings.HasPrefix(s, "/") {
		// A "$" inside a regex is an anchor; options follow the closing slash.
		idx := strings.LastIndex(s, "/$")
		if idx <= 0 {
			return s, ""
		}
		return s[:idx+1], s[idx+2:]
	}

	idx := strings.LastIndex(s, "$")
	if idx == -1 || (idx > 0 && s[idx-1] == '\\') {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}

// Modifiers content blockers have no way to express.
var unsupportedModifiers = map[string]bool{
	"csp":           true,
	"replace":       true,
	"cookie":        true,
	"redirect":      true,
	"redirect-rule": true,
	"removeparam":   true,
	"removeheader":  true,
	"stealth":       true,
	"network":       true,
	"object":        true,
	"webrtc":        true,
	"dnsrewrite":    true,
	"app":           true,
	"specifichide":  true,
	"extension":     true,
	"hls":           true,
	"jsonprune":     true,
	"permissions":   true,
	"header":        true,
	"method":        true,
	"to":            true,
}

func parseModifiers(raw string, m *Modifiers) error {
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			return fmt.Errorf("%w: empty modifier", ErrUnknownModifier)
		}

		key, val, hasVal := strings.Cut(p, "=")
		key = strings.ToLower(key)
		negated := strings.HasPrefix(key, "~")
		name := strings.TrimPrefix(key, "~")

		if t, ok := contentTypes[name]; ok && !hasVal {
			if negated {
				m.RestrictedTypes |= t
			} else {
				m.PermittedTypes |= t
			}
			continue
		}

		switch name {
		case "domain":
			if negated || !hasVal {
				return fmt.Errorf("%w: %s", ErrUnknownModifier, p)
			}
			permitted, restricted, err := parseDomains(val, "|")
			if err != nil {
				return err
			}
			m.PermittedDomains = append(m.PermittedDomains, permitted...)
			m.RestrictedDomains = append(m.RestrictedDomains, restricted...)
			continue
		case "third-party":
			thirdParty := !negated
			m.ThirdParty = &thirdParty
			continue
		case "match-case":
			m.MatchCase = !negated
			continue
		}

		if negated || hasVal {
			if unsupportedModifiers[name] {
				return fmt.Errorf("%w: %s", ErrUnsupportedModifier, p)
			}
			return fmt.Errorf("%w: %s", ErrUnknownModifier, p)
		}

		switch name {
		case "important":
			m.Important = true
		case "badfilter":
			m.Badfilter = true
		case "document":
			m.Document = true
		case "elemhide":
			m.Elemhide = true
		case "generichide":
			m.Generichide = true
		case "genericblock":
			m.Genericblock = true
		case "jsinject":
			m.Jsinject = true
		case "urlblock":
			m.Urlblock = true
		case "content":
			m.Content = true
		case "popup":
			m.Popup = true
		default:
			if unsupportedModifiers[name] {
				return fmt.Errorf("%w: %s", ErrUnsupportedModifier, name)
			}
			return fmt.Errorf("%w: %s", ErrUnknownModifier, name)
		}
	}
	return nil
}

// parseDomains splits a domain list into permitted and restricted (~) domains.
func parseDomains(list, sep string) (permitted, restricted []string, err error) {
	for _, d := range strings.Split(list, sep) {
		d = strings.TrimSpace(d)
		negated := strings.HasPrefix(d, "~")
		d = strings.TrimPrefix(d, "~")

		domain, err := NormalizeDomain(d)
		if err != nil {
			return nil, nil, err
		}
		if negated {
			restricted = append(restricted, domain)
		} else {
			permitted = append(permitted, domain)
		}
	}
	return permitted, restricted, nil
}

// NormalizeDomain lowercases and punycodes a domain and checks it is a valid name.
func NormalizeDomain(d string) (string, error) {
	if d == "" {
		return "", fmt.Errorf("%w: empty domain", ErrInvalidDomain)
	}
	if !utf8.ValidString(d) {
		return "", fmt.Errorf("%w: invalid UTF-8 in %q", ErrInvalidDomain, d)
	}

	ascii, err := idna.ToASCII(strings.ToLower(d))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidDomain, d, err)
	}
	if !isASCII(ascii) {
		return "", fmt.Errorf("%w: %s", ErrNonASCII, d)
	}
	if strings.ContainsAny(ascii, "*/:?|^ ") {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, d)
	}
	if _, ok := dns.IsDomainName(ascii); !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, d)
	}
	return strings.TrimSuffix(ascii, "."), nil
}

// punycodePattern converts the host of a URL pattern to its ASCII form.
func punycodePattern(pattern string) (string, error) {
	if isASCII(pattern) {
		return pattern, nil
	}
	if !utf8.ValidString(pattern) {
		return "", fmt.Errorf("%w: invalid UTF-8 in %q", ErrInvalidPattern, pattern)
	}

	start := 0
	switch {
	case strings.HasPrefix(pattern, "||"):
		start = 2
	case strings.Contains(pattern, "://"):
		start = strings.Index(pattern, "://") + 3
	}

	rest := pattern[start:]
	end := strings.IndexAny(rest, "/^$:?*|")
	if end == -1 {
		end = len(rest)
	}

	host, err := idna.ToASCII(strings.ToLower(rest[:end]))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidPattern, pattern, err)
	}

	result := pattern[:start] + host + rest[end:]
	if !isASCII(result) {
		return "", fmt.Errorf("%w: %s", ErrNonASCII, pattern)
	}
	return result, nil
}

// badfilterTarget strips $badfilter from text, yielding the rule it negates.
func badfilterTarget(text string) string {
	prefix := ""
	body := text
	if strings.HasPrefix(body, "@@") {
		prefix = "@@"
		body = body[2:]
	}

	pattern, options := splitOptions(body)
	var kept []string
	for _, opt := range strings.Split(options, ",") {
		if strings.TrimSpace(opt) != "badfilter" {
			kept = append(kept, opt)
		}
	}

	if len(kept) == 0 {
		return prefix + pattern
	}
	return prefix + pattern + "$" + strings.Join(kept, ",")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
