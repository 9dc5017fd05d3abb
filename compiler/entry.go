package compiler

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"safariconverter/blocker"
	"safariconverter/parser"
)

// ||example.com or ||example.com^
var bareDomainPattern = regexp.MustCompile(`(?i)^\|\|[a-z0-9.-]+\^?$`)

// Resource types in the order they are emitted.
var resourceTypes = []struct {
	t    parser.ContentType
	name string
}{
	{parser.TypeImage, blocker.ResourceTypeImage},
	{parser.TypeStylesheet, blocker.ResourceTypeStyleSheet},
	{parser.TypeScript, blocker.ResourceTypeScript},
	{parser.TypeMedia, blocker.ResourceTypeMedia},
	{parser.TypeXMLHTTPRequest, blocker.ResourceTypeRaw},
	{parser.TypeOther, blocker.ResourceTypeRaw},
	{parser.TypeWebsocket, blocker.ResourceTypeWebsocket},
	{parser.TypeFont, blocker.ResourceTypeFont},
	{parser.TypeSubdocument, blocker.ResourceTypeDocument},
	{parser.TypePing, blocker.ResourceTypePing},
}

type scriptletParam struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// entryBuilder turns parsed rules into content blocker entries for one Safari version.
type entryBuilder struct {
	version blocker.Version
}

func (b *entryBuilder) networkEntry(r *parser.NetworkRule) (blocker.Entry, error) {
	var entry blocker.Entry
	m := r.Modifiers

	if r.Exception {
		entry.Action.Type = blocker.ActionTypeIgnorePreviousRules
	} else {
		entry.Action.Type = blocker.ActionTypeBlock
	}

	if r.Exception && isPageException(r) && bareDomainPattern.MatchString(r.Pattern) &&
		len(m.PermittedDomains) == 0 && len(m.RestrictedDomains) == 0 {
		// @@||example.com^$document applies to the whole page, not to requests.
		domain := strings.ToLower(strings.TrimSuffix(r.Pattern[2:], "^"))
		entry.Trigger.URLFilter = blocker.URLFilterAny
		entry.Trigger.IfDomain = []string{"*" + domain}
		return entry, nil
	}

	urlFilter, err := URLFilter(r.Pattern)
	if err != nil {
		return entry, err
	}
	entry.Trigger.URLFilter = urlFilter

	if err := setDomains(&entry.Trigger, m.PermittedDomains, m.RestrictedDomains); err != nil {
		return entry, err
	}

	types, err := b.resourceTypes(r)
	if err != nil {
		return entry, err
	}
	entry.Trigger.ResourceType = types

	if m.PermittedTypes.Has(parser.TypeWebsocket) && !b.version.SupportsWebsocket() &&
		entry.Trigger.URLFilter == blocker.URLFilterAny {
		entry.Trigger.URLFilter = `^wss?:\/\/`
	}

	if m.ThirdParty != nil {
		if *m.ThirdParty {
			entry.Trigger.LoadType = []string{blocker.LoadTypeThirdParty}
		} else {
			entry.Trigger.LoadType = []string{blocker.LoadTypeFirstParty}
		}
	}

	if m.MatchCase {
		entry.Trigger.URLFilterIsCaseSensitive = blocker.Bool(true)
	}

	return entry, nil
}

// resourceTypes returns nil when the rule applies to every resource type.
func (b *entryBuilder) resourceTypes(r *parser.NetworkRule) ([]string, error) {
	m := r.Modifiers

	types := m.PermittedTypes
	if types == 0 && m.RestrictedTypes != 0 {
		types = parser.TypeAll
	}
	types &^= m.RestrictedTypes
	if (m.PermittedTypes != 0 || m.RestrictedTypes != 0) && types == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoResourceTypes, r.Text)
	}

	var result []string
	add := func(name string) {
		for _, existing := range result {
			if existing == name {
				return
			}
		}
		result = append(result, name)
	}

	for _, rt := range resourceTypes {
		if !types.Has(rt.t) {
			continue
		}
		switch {
		case rt.t == parser.TypePing && !b.version.SupportsPing():
			add(blocker.ResourceTypeRaw)
		case rt.t == parser.TypeWebsocket && !b.version.SupportsWebsocket():
			add(blocker.ResourceTypeRaw)
		default:
			add(rt.name)
		}
	}

	if !r.Exception && m.Document {
		add(blocker.ResourceTypeDocument)
	}
	if m.Popup {
		add(blocker.ResourceTypePopup)
	}
	return result, nil
}

func (b *entryBuilder) cosmeticEntry(r *parser.CosmeticRule) (blocker.Entry, error) {
	var entry blocker.Entry
	entry.Trigger.URLFilter = blocker.URLFilterAny

	if err := setDomains(&entry.Trigger, r.PermittedDomains, r.RestrictedDomains); err != nil {
		return entry, err
	}

	switch {
	case r.Kind == parser.KindElementHiding && !r.ExtendedCSS:
		entry.Action.Type = blocker.ActionTypeCSSDisplayNone
		entry.Action.Selector = r.Content
	case r.Kind == parser.KindElementHiding:
		entry.Action.Type = blocker.ActionTypeCSSExtended
		entry.Action.CSS = r.Content
	case r.Kind == parser.KindCSSInjection:
		entry.Action.Type = blocker.ActionTypeCSSInject
		entry.Action.CSS = r.Content
	case r.Kind == parser.KindScript:
		entry.Action.Type = blocker.ActionTypeScript
		entry.Action.Script = r.Content
	case r.Kind == parser.KindScriptlet:
		args := r.ScriptletArgs
		if args == nil {
			args = []string{}
		}
		param, err := json.Marshal(scriptletParam{Name: r.ScriptletName, Args: args})
		if err != nil {
			return entry, err
		}
		entry.Action.Type = blocker.ActionTypeScriptlet
		entry.Action.Scriptlet = r.ScriptletName
		entry.Action.ScriptletParam = string(param)
	}

	return entry, nil
}

func setDomains(t *blocker.Trigger, permitted, restricted []string) error {
	if len(permitted) > 0 && len(restricted) > 0 {
		return ErrConflictingDomains
	}
	t.IfDomain = wildcardDomains(permitted)
	t.UnlessDomain = wildcardDomains(restricted)
	return nil
}

// wildcardDomains prefixes every domain with "*" so that subdomains match too.
func wildcardDomains(domains []string) []string {
	if len(domains) == 0 {
		return nil
	}
	result := make([]string, len(domains))
	for i, d := range domains {
		result[i] = "*" + d
	}
	return result
}

// isPageException reports whether r allowlists whole pages rather than requests.
func isPageException(r *parser.NetworkRule) bool {
	m := r.Modifiers
	return m.Document || m.Elemhide || m.Generichide || m.Jsinject || m.Urlblock || m.Content || m.Genericblock
}
