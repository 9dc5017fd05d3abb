package parser

// Rule is a parsed filtering rule: either a *NetworkRule or a *CosmeticRule.
type Rule interface {
	// RuleText returns the canonical source text of the rule.
	RuleText() string
	rule()
}

// ContentType is a bitmask of request types a network rule is limited to.
type ContentType uint16

const (
	TypeImage ContentType = 1 << iota
	TypeStylesheet
	TypeScript
	TypeMedia
	TypeXMLHTTPRequest
	TypeOther
	TypeWebsocket
	TypeFont
	TypeSubdocument
	TypePing

	TypeAll = TypeImage | TypeStylesheet | TypeScript | TypeMedia | TypeXMLHTTPRequest |
		TypeOther | TypeWebsocket | TypeFont | TypeSubdocument | TypePing
)

var contentTypes = map[string]ContentType{
	"image":          TypeImage,
	"stylesheet":     TypeStylesheet,
	"script":         TypeScript,
	"media":          TypeMedia,
	"xmlhttprequest": TypeXMLHTTPRequest,
	"other":          TypeOther,
	"websocket":      TypeWebsocket,
	"font":           TypeFont,
	"subdocument":    TypeSubdocument,
	"ping":           TypePing,
}

// Has reports whether all bits of t are set.
func (c ContentType) Has(t ContentType) bool {
	return c&t == t
}

// Modifiers holds the parsed network rule modifiers.
type Modifiers struct {
	PermittedDomains  []string    // $domain=a.com
	RestrictedDomains []string    // $domain=~a.com
	PermittedTypes    ContentType // $script,image
	RestrictedTypes   ContentType // $~script
	ThirdParty        *bool       // nil = any, true = $third-party, false = $~third-party
	MatchCase         bool        // $match-case
	Important         bool        // $important
	Badfilter         bool        // $badfilter
	Document          bool        // $document
	Elemhide          bool        // $elemhide
	Generichide       bool        // $generichide
	Genericblock      bool        // $genericblock
	Jsinject          bool        // $jsinject
	Urlblock          bool        // $urlblock
	Content           bool        // $content
	Popup             bool        // $popup
}

// NetworkRule matches requests by URL.
type NetworkRule struct {
	Text      string    // Canonical rule text
	Pattern   string    // URL pattern without "@@" and modifiers
	Exception bool      // True if it starts with @@
	Modifiers Modifiers // Parsed modifiers

	// Badfilter is the text of the rule this one negates. Only set with $badfilter.
	Badfilter string

	// Source is the input line the rule was normalized from, if it differs from Text.
	Source string
}

func (r *NetworkRule) RuleText() string { return r.Text }

// SourceText returns the input line the rule came from.
func (r *NetworkRule) SourceText() string {
	if r.Source != "" {
		return r.Source
	}
	return r.Text
}
func (r *NetworkRule) rule()            {}

// CosmeticKind distinguishes what a cosmetic rule does to the page.
type CosmeticKind int

const (
	KindElementHiding CosmeticKind = iota // example.com##.banner
	KindCSSInjection                      // example.com#$#.banner { display: none; }
	KindScript                            // example.com#%#window.x = 1;
	KindScriptlet                         // example.com#%#//scriptlet('name', 'arg')
)

// CosmeticRule hides elements or injects styles and scripts into pages.
type CosmeticRule struct {
	Text              string
	Kind              CosmeticKind
	Content           string // Selector, style block or script
	PermittedDomains  []string
	RestrictedDomains []string
	Exception         bool // #@#, #@$#, #@?#, #@%#
	ExtendedCSS       bool // #?#, #$?# or extended pseudo-classes in the selector

	ScriptletName string
	ScriptletArgs []string
}

func (r *CosmeticRule) RuleText() string { return r.Text }
func (r *CosmeticRule) rule()            {}

// IsWide reports whether the rule applies on every domain.
func (r *CosmeticRule) IsWide() bool {
	return len(r.PermittedDomains) == 0 && len(r.RestrictedDomains) == 0
}

// IsScript reports whether r injects a raw script.
func IsScript(r Rule) bool {
	c, ok := r.(*CosmeticRule)
	return ok && c.Kind == KindScript
}

// IsScriptlet reports whether r runs a scriptlet.
func IsScriptlet(r Rule) bool {
	c, ok := r.(*CosmeticRule)
	return ok && c.Kind == KindScriptlet
}

// IsExtendedCSS reports whether r needs the extended CSS engine.
func IsExtendedCSS(r Rule) bool {
	c, ok := r.(*CosmeticRule)
	return ok && c.ExtendedCSS
}

// IsInjectCSS reports whether r injects a style block.
func IsInjectCSS(r Rule) bool {
	c, ok := r.(*CosmeticRule)
	return ok && c.Kind == KindCSSInjection
}

// IsAdvanced reports whether r can only be applied by advanced blocking.
func IsAdvanced(r Rule) bool {
	return IsScript(r) || IsScriptlet(r) || IsExtendedCSS(r) || IsInjectCSS(r)
}

// IsException reports whether r is an allowlist rule of either kind.
func IsException(r Rule) bool {
	switch v := r.(type) {
	case *NetworkRule:
		return v.Exception
	case *CosmeticRule:
		return v.Exception
	}
	return false
}

// IsDocumentException reports whether r disables all filtering on matching pages.
func IsDocumentException(r Rule) bool {
	n, ok := r.(*NetworkRule)
	return ok && n.Exception && n.Modifiers.Document
}

// IsCSSException reports whether r disables element hiding on matching pages.
func IsCSSException(r Rule) bool {
	n, ok := r.(*NetworkRule)
	return ok && n.Exception && (n.Modifiers.Elemhide || n.Modifiers.Generichide)
}

// IsJsInjectException reports whether r disables scripts and scriptlets on matching pages.
func IsJsInjectException(r Rule) bool {
	n, ok := r.(*NetworkRule)
	return ok && n.Exception && n.Modifiers.Jsinject
}
