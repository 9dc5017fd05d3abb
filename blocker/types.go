// Package blocker defines the WebKit content blocking format produced by the converter.
package blocker

// Entry represents a single WebKit content blocking rule.
type Entry struct {
	Trigger Trigger `json:"trigger"`
	Action  Action  `json:"action"`
}

// Trigger defines when an entry applies.
type Trigger struct {
	URLFilter                string   `json:"url-filter"`
	URLFilterIsCaseSensitive *bool    `json:"url-filter-is-case-sensitive,omitempty"`
	IfDomain                 []string `json:"if-domain,omitempty"`
	UnlessDomain             []string `json:"unless-domain,omitempty"`
	ResourceType             []string `json:"resource-type,omitempty"`
	LoadType                 []string `json:"load-type,omitempty"`
}

// Action defines what to do when a trigger matches.
// Css, Script, Scriptlet and ScriptletParam are only used by advanced blocking.
type Action struct {
	Type           string `json:"type"`
	Selector       string `json:"selector,omitempty"`
	CSS            string `json:"css,omitempty"`
	Script         string `json:"script,omitempty"`
	Scriptlet      string `json:"scriptlet,omitempty"`
	ScriptletParam string `json:"scriptletParam,omitempty"`
}

// Action types understood by WebKit.
const (
	ActionTypeBlock               = "block"
	ActionTypeIgnorePreviousRules = "ignore-previous-rules"
	ActionTypeCSSDisplayNone      = "css-display-none"
)

// Action types only understood by the advanced blocking extension.
const (
	ActionTypeCSSExtended = "css-extended"
	ActionTypeCSSInject   = "css-inject"
	ActionTypeScript      = "script"
	ActionTypeScriptlet   = "scriptlet"
)

// Resource types.
const (
	ResourceTypeDocument   = "document"
	ResourceTypeImage      = "image"
	ResourceTypeStyleSheet = "style-sheet"
	ResourceTypeScript     = "script"
	ResourceTypeFont       = "font"
	ResourceTypeRaw        = "raw"
	ResourceTypeMedia      = "media"
	ResourceTypePopup      = "popup"
	ResourceTypePing       = "ping"
	ResourceTypeWebsocket  = "websocket"
)

// Load types.
const (
	LoadTypeFirstParty = "first-party"
	LoadTypeThirdParty = "third-party"
)

// URLFilterAny matches every URL.
const URLFilterAny = ".*"

// Bool returns a pointer to b, for optional trigger flags.
func Bool(b bool) *bool {
	return &b
}
