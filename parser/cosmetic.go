package parser

import (
	"fmt"
	"strings"
)

// Marker separates the domains of a cosmetic rule from its body.
type Marker string

const (
	MarkerElementHiding                 Marker = "##"
	MarkerElementHidingException        Marker = "#@#"
	MarkerExtendedCSS                   Marker = "#?#"
	MarkerExtendedCSSException          Marker = "#@?#"
	MarkerCSSInjection                  Marker = "#$#"
	MarkerCSSInjectionException         Marker = "#@$#"
	MarkerExtendedCSSInjection          Marker = "#$?#"
	MarkerExtendedCSSInjectionException Marker = "#@$?#"
	MarkerScript                        Marker = "#%#"
	MarkerScriptException               Marker = "#@%#"
	MarkerHTML                          Marker = "$$"
	MarkerHTMLException                 Marker = "$@$"
)

// Longest first, so that "#@$?#" is never taken for "#@$#".
var markers = []Marker{
	MarkerExtendedCSSInjectionException,
	MarkerExtendedCSSInjection,
	MarkerCSSInjectionException,
	MarkerExtendedCSSException,
	MarkerScriptException,
	MarkerElementHidingException,
	MarkerCSSInjection,
	MarkerExtendedCSS,
	MarkerScript,
	MarkerElementHiding,
	MarkerHTMLException,
	MarkerHTML,
}

const scriptletPrefix = "//scriptlet("

// Pseudo-classes only the extended CSS engine understands.
var extendedPseudoClasses = []string{
	":has(",
	":has-text(",
	":contains(",
	":matches-css(",
	":matches-css-before(",
	":matches-css-after(",
	":matches-attr(",
	":matches-property(",
	":-abp-has(",
	":-abp-contains(",
	":-abp-properties(",
	":properties(",
	":if(",
	":if-not(",
	":xpath(",
	":nth-ancestor(",
	":upward(",
	":remove(",
	"[-ext-",
}

// FindCosmeticMarker returns the index and kind of the first cosmetic marker in text,
// or -1 if text is not a cosmetic rule.
func FindCosmeticMarker(text string) (int, Marker) {
	for i := 0; i < len(text); i++ {
		if text[i] != '#' && text[i] != '$' {
			continue
		}
		for _, m := range markers {
			if strings.HasPrefix(text[i:], string(m)) {
				if !isDomainsPart(text[:i]) {
					return -1, ""
				}
				return i, m
			}
		}
	}
	return -1, ""
}

// isDomainsPart reports whether s can be the domain list in front of a marker.
func isDomainsPart(s string) bool {
	return !strings.ContainsAny(s, "/|^$@&?=\\ ")
}

func parseCosmeticRule(text string, idx int, marker Marker) (*CosmeticRule, error) {
	rule := &CosmeticRule{Text: text}

	content := strings.TrimSpace(text[idx+len(marker):])
	if content == "" {
		return nil, fmt.Errorf("%w: empty rule body", ErrInvalidSelector)
	}
	rule.Content = content

	if domains := text[:idx]; domains != "" {
		permitted, restricted, err := parseDomains(domains, ",")
		if err != nil {
			return nil, err
		}
		rule.PermittedDomains = permitted
		rule.RestrictedDomains = restricted
	}

	switch marker {
	case MarkerElementHiding, MarkerElementHidingException:
		rule.Kind = KindElementHiding
		rule.Exception = marker == MarkerElementHidingException
		rule.ExtendedCSS = hasExtendedPseudoClass(content)
	case MarkerExtendedCSS, MarkerExtendedCSSException:
		rule.Kind = KindElementHiding
		rule.Exception = marker == MarkerExtendedCSSException
		rule.ExtendedCSS = true
	case MarkerCSSInjection, MarkerCSSInjectionException:
		rule.Kind = KindCSSInjection
		rule.Exception = marker == MarkerCSSInjectionException
		rule.ExtendedCSS = hasExtendedPseudoClass(content)
	case MarkerExtendedCSSInjection, MarkerExtendedCSSInjectionException:
		rule.Kind = KindCSSInjection
		rule.Exception = marker == MarkerExtendedCSSInjectionException
		rule.ExtendedCSS = true
	case MarkerScript, MarkerScriptException:
		rule.Kind = KindScript
		rule.Exception = marker == MarkerScriptException
	default:
		return nil, fmt.Errorf("%w: html filtering", ErrUnsupportedRule)
	}

	switch rule.Kind {
	case KindElementHiding:
		if strings.ContainsAny(content, "{}") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSelector, content)
		}
	case KindCSSInjection:
		if err := validateStyle(content); err != nil {
			return nil, err
		}
	case KindScript:
		if strings.HasPrefix(content, scriptletPrefix) {
			name, args, err := parseScriptlet(content)
			if err != nil {
				return nil, err
			}
			rule.Kind = KindScriptlet
			rule.ScriptletName = name
			rule.ScriptletArgs = args
		}
	}

	return rule, nil
}

func hasExtendedPseudoClass(selector string) bool {
	for _, p := range extendedPseudoClasses {
		if strings.Contains(selector, p) {
			return true
		}
	}
	return false
}

// validateStyle checks a "selector { declarations }" body.
func validateStyle(content string) error {
	open := strings.Index(content, "{")
	if open <= 0 || !strings.HasSuffix(content, "}") {
		return fmt.Errorf("%w: style block expected: %s", ErrInvalidSelector, content)
	}
	if strings.Contains(strings.ToLower(content), "url(") {
		return fmt.Errorf("%w: url() is not allowed in injected styles", ErrInvalidSelector)
	}
	return nil
}

// parseScriptlet parses //scriptlet('name', 'arg', ...).
func parseScriptlet(content string) (string, []string, error) {
	if !strings.HasSuffix(content, ")") {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidScriptlet, content)
	}

	args, err := parseQuotedArgs(content[len(scriptletPrefix) : len(content)-1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %w", ErrInvalidScriptlet, content, err)
	}
	if len(args) == 0 || args[0] == "" {
		return "", nil, fmt.Errorf("%w: missing name: %s", ErrInvalidScriptlet, content)
	}
	return args[0], args[1:], nil
}

// parseQuotedArgs splits a comma separated list of single or double quoted strings.
func parseQuotedArgs(s string) ([]string, error) {
	var args []string
	i := 0
	skipSpaces := func() {
		for i < len(s) && s[i] == ' ' {
			i++
		}
	}

	for {
		skipSpaces()
		if i >= len(s) {
			if len(args) > 0 {
				return nil, fmt.Errorf("trailing comma")
			}
			return args, nil
		}

		quote := s[i]
		if quote != '\'' && quote != '"' {
			return nil, fmt.Errorf("unquoted argument at %d", i)
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) && s[i+1] == quote {
				b.WriteByte(quote)
				i += 2
				continue
			}
			i++
			if c == quote {
				closed = true
				break
			}
			b.WriteByte(c)
		}
		if !closed {
			return nil, fmt.Errorf("unterminated argument")
		}
		args = append(args, b.String())

		skipSpaces()
		if i >= len(s) {
			return args, nil
		}
		if s[i] != ',' {
			return nil, fmt.Errorf("expected comma at %d", i)
		}
		i++
	}
}
