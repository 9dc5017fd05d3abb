package converter

import (
	"strings"

	"github.com/miekg/dns"
)

// CreateAllowlistRule returns a rule that disables filtering on domain.
func CreateAllowlistRule(domain string) string {
	return "@@||" + canonicalDomain(domain) + "^$document"
}

// CreateInvertedAllowlistRule returns a rule that disables filtering everywhere
// except on domains. Returns "" if no domain is given.
func CreateInvertedAllowlistRule(domains []string) string {
	var restricted []string
	for _, d := range domains {
		d = canonicalDomain(d)
		if d == "" {
			continue
		}
		restricted = append(restricted, "~"+d)
	}

	if len(restricted) == 0 {
		return ""
	}
	return "@@||*$document,domain=" + strings.Join(restricted, "|")
}

// canonicalDomain lowercases d and strips surrounding spaces and the root dot.
func canonicalDomain(d string) string {
	d = strings.TrimSpace(d)
	if d == "" {
		return ""
	}
	return strings.TrimSuffix(dns.CanonicalName(d), ".")
}
