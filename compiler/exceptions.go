package compiler

import (
	"slices"

	"safariconverter/parser"
)

type cosmeticKey struct {
	kind    parser.CosmeticKind
	content string
}

// applyCosmeticExceptions applies #@#-style exceptions to the blocking cosmetic rules
// with the same kind and body, and returns the rules that still apply somewhere.
// Exception rules are consumed and never returned.
func applyCosmeticExceptions(rules []*parser.CosmeticRule) []*parser.CosmeticRule {
	exceptions := make(map[cosmeticKey][]*parser.CosmeticRule)
	for _, r := range rules {
		if r.Exception {
			key := cosmeticKey{r.Kind, r.Content}
			exceptions[key] = append(exceptions[key], r)
		}
	}

	result := make([]*parser.CosmeticRule, 0, len(rules))
	for _, r := range rules {
		if r.Exception {
			continue
		}

		excs, ok := exceptions[cosmeticKey{r.Kind, r.Content}]
		if !ok {
			result = append(result, r)
			continue
		}

		if applied, keep := applyExceptions(r, excs); keep {
			result = append(result, applied)
		}
	}
	return result
}

// applyExceptions returns a copy of r narrowed by excs, or false if nothing is left.
func applyExceptions(r *parser.CosmeticRule, excs []*parser.CosmeticRule) (*parser.CosmeticRule, bool) {
	rule := *r
	rule.PermittedDomains = slices.Clone(r.PermittedDomains)
	rule.RestrictedDomains = slices.Clone(r.RestrictedDomains)

	for _, exc := range excs {
		if exc.IsWide() {
			// #@#.banner disables .banner everywhere
			return nil, false
		}
		if len(exc.PermittedDomains) == 0 {
			continue
		}

		if len(rule.PermittedDomains) > 0 {
			rule.PermittedDomains = slices.DeleteFunc(rule.PermittedDomains, func(d string) bool {
				return slices.Contains(exc.PermittedDomains, d)
			})
			if len(rule.PermittedDomains) == 0 {
				return nil, false
			}
			continue
		}

		for _, d := range exc.PermittedDomains {
			if !slices.Contains(rule.RestrictedDomains, d) {
				rule.RestrictedDomains = append(rule.RestrictedDomains, d)
			}
		}
	}
	return &rule, true
}
