package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"safariconverter/blocker"
)

const (
	regexStartURL     = `^[htpsw]+:\/\/([a-z0-9-]+\.)?`
	regexSeparator    = `[/:&?]?`
	regexEndSeparator = `([\/:&\?].*)?$`
	regexAnySymbol    = `.*`
)

// Constructs WebKit's regex engine does not support.
var unsupportedRegexTokens = []string{
	"|", "{", "}", "(?",
	`\d`, `\D`, `\w`, `\W`, `\s`, `\S`, `\b`, `\B`,
}

// URLFilter converts a network rule pattern into a WebKit url-filter regex.
func URLFilter(pattern string) (string, error) {
	switch pattern {
	case "", "*", "|*", "||*":
		return blocker.URLFilterAny, nil
	}

	if len(pattern) > 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		return validateRegex(pattern[1 : len(pattern)-1])
	}

	var b strings.Builder
	s := pattern

	switch {
	case strings.HasPrefix(s, "||"):
		b.WriteString(regexStartURL)
		s = s[2:]
	case strings.HasPrefix(s, "|"):
		b.WriteByte('^')
		s = s[1:]
	}

	end := ""
	switch {
	case strings.HasSuffix(s, "|"):
		end = "$"
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "^"):
		end = regexEndSeparator
		s = s[:len(s)-1]
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '*':
			b.WriteString(regexAnySymbol)
		case '^':
			b.WriteString(regexSeparator)
		case '.', '+', '?', '$', '{', '}', '(', ')', '[', ']', '/', '\\', '|':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString(end)

	return b.String(), nil
}

func validateRegex(re string) (string, error) {
	for _, token := range unsupportedRegexTokens {
		if strings.Contains(re, token) {
			return "", fmt.Errorf("%w: %q in /%s/", ErrUnsupportedRegex, token, re)
		}
	}
	if _, err := regexp.Compile(re); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedRegex, err)
	}
	return re, nil
}
