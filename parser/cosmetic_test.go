package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCosmeticMarker(t *testing.T) {
	tests := []struct {
		text   string
		idx    int
		marker Marker
	}{
		{"##.ad", 0, MarkerElementHiding},
		{"example.com###ad", 11, MarkerElementHiding},
		{"example.com#@#.ad", 11, MarkerElementHidingException},
		{"example.com#?#.ad", 11, MarkerExtendedCSS},
		{"example.com#@$?#.ad { color: red }", 11, MarkerExtendedCSSInjectionException},
		{"example.com#$#.ad { color: red }", 11, MarkerCSSInjection},
		{"#%#window.a = 1;", 0, MarkerScript},
		{"example.com$$script", 11, MarkerHTML},
		{"||example.com^$domain=a.com", -1, ""},
		{"||example.com/#anchor##x", -1, ""},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			idx, marker := FindCosmeticMarker(tc.text)
			assert.Equal(t, tc.idx, idx)
			assert.Equal(t, tc.marker, marker)
		})
	}
}

func TestParseRule_ElementHiding(t *testing.T) {
	rule, err := ParseRule("##.ad-banner")
	require.NoError(t, err)

	c, ok := rule.(*CosmeticRule)
	require.True(t, ok)
	assert.Equal(t, KindElementHiding, c.Kind)
	assert.Equal(t, ".ad-banner", c.Content)
	assert.True(t, c.IsWide())
	assert.False(t, c.Exception)
	assert.False(t, IsAdvanced(c))

	rule, err = ParseRule("example.com,~sub.example.com##.ad")
	require.NoError(t, err)
	c = rule.(*CosmeticRule)
	assert.Equal(t, []string{"example.com"}, c.PermittedDomains)
	assert.Equal(t, []string{"sub.example.com"}, c.RestrictedDomains)
	assert.False(t, c.IsWide())
}

func TestParseRule_CosmeticKinds(t *testing.T) {
	tests := []struct {
		text      string
		kind      CosmeticKind
		exception bool
		extended  bool
	}{
		{"example.com#@#.ad", KindElementHiding, true, false},
		{"example.com#?#.ad", KindElementHiding, false, true},
		{"##div:has-text(Sponsored)", KindElementHiding, false, true},
		{"example.com#@?#.ad:has(> a)", KindElementHiding, true, true},
		{"example.com#$#.ad { display: none; }", KindCSSInjection, false, false},
		{"example.com#$?#.ad:has(> a) { display: none; }", KindCSSInjection, false, true},
		{"example.com#@$#.ad { display: none; }", KindCSSInjection, true, false},
		{"#%#window.a = 1;", KindScript, false, false},
		{"example.com#@%#window.a = 1;", KindScript, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			rule, err := ParseRule(tc.text)
			require.NoError(t, err)
			c := rule.(*CosmeticRule)
			assert.Equal(t, tc.kind, c.Kind)
			assert.Equal(t, tc.exception, c.Exception)
			assert.Equal(t, tc.extended, c.ExtendedCSS)
		})
	}
}

func TestParseRule_Scriptlet(t *testing.T) {
	rule, err := ParseRule(`example.com#%#//scriptlet('set-constant', 'ads', "it's", 'a\'b')`)
	require.NoError(t, err)

	c := rule.(*CosmeticRule)
	assert.Equal(t, KindScriptlet, c.Kind)
	assert.True(t, IsScriptlet(c))
	assert.False(t, IsScript(c))
	assert.Equal(t, "set-constant", c.ScriptletName)
	assert.Equal(t, []string{"ads", "it's", "a'b"}, c.ScriptletArgs)

	rule, err = ParseRule("example.com#%#//scriptlet('prevent-popads-net')")
	require.NoError(t, err)
	c = rule.(*CosmeticRule)
	assert.Equal(t, "prevent-popads-net", c.ScriptletName)
	assert.Empty(t, c.ScriptletArgs)
}

func TestParseRule_CosmeticErrors(t *testing.T) {
	tests := []struct {
		text string
		err  error
	}{
		{"example.com##", ErrInvalidSelector},
		{"##.ad { color: red }", ErrInvalidSelector},
		{"example.com#$#.ad", ErrInvalidSelector},
		{"example.com#$#.ad { background: url(http://x) }", ErrInvalidSelector},
		{"example.com#%#//scriptlet('x", ErrInvalidScriptlet},
		{"example.com#%#//scriptlet(x)", ErrInvalidScriptlet},
		{"example.com#%#//scriptlet('a',)", ErrInvalidScriptlet},
		{"example.com#%#//scriptlet()", ErrInvalidScriptlet},
		{"example.com$$script[data-ad]", ErrUnsupportedRule},
		{"a..com##.ad", ErrInvalidDomain},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			rule, err := ParseRule(tc.text)
			assert.Nil(t, rule)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
