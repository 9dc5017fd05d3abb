package converter

import "safariconverter/parser"

// VettedRules is a rule set split by whether WebKit can apply the rules natively.
type VettedRules struct {
	// Advanced holds scripts, scriptlets, extended CSS and CSS injections.
	Advanced []parser.Rule
	// Simple holds network rules and plain element hiding.
	Simple []parser.Rule
}

// VetRules splits rules into simple and advanced ones.
// Document, CSS and jsinject exceptions go into both lists: they switch off
// advanced rules too, so both consumers must see them.
func VetRules(rules []parser.Rule) VettedRules {
	var result VettedRules
	for _, r := range rules {
		switch {
		case parser.IsAdvanced(r):
			result.Advanced = append(result.Advanced, r)
		case parser.IsDocumentException(r) || parser.IsCSSException(r) || parser.IsJsInjectException(r):
			result.Advanced = append(result.Advanced, r)
			result.Simple = append(result.Simple, r)
		default:
			result.Simple = append(result.Simple, r)
		}
	}
	return result
}
