package parser

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safariconverter/blocker"
)

func newTestFactory() (*Factory, *Env) {
	env := NewEnv(blocker.DefaultVersion, zerolog.Nop())
	return NewFactory(env), env
}

func ruleTexts(rules []Rule) []string {
	texts := make([]string, len(rules))
	for i, r := range rules {
		texts[i] = r.RuleText()
	}
	return texts
}

func TestFactory_CreateRules(t *testing.T) {
	f, env := newTestFactory()

	rules := f.CreateRules([]string{
		"! comment",
		"",
		" indented",
		"##.ad-banner",
		"||example.com^$unknownmod",
		"@@||example.org^$document",
	})

	assert.Equal(t, []string{"##.ad-banner", "@@||example.org^$document"}, ruleTexts(rules))
	assert.Equal(t, 1, env.Errors.Count())
}

func TestFactory_Badfilter(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "after target",
			lines: []string{"||example.com^", "||example.com^$badfilter"},
			want:  []string{},
		},
		{
			name:  "before target",
			lines: []string{"||example.com^$badfilter", "||example.com^", "||example.org^"},
			want:  []string{"||example.org^"},
		},
		{
			name:  "options must match",
			lines: []string{"||a.com^$script", "||a.com^$script,badfilter", "||a.com^"},
			want:  []string{"||a.com^"},
		},
		{
			name:  "exception",
			lines: []string{"@@||a.com^$document", "@@||a.com^$document,badfilter"},
			want:  []string{},
		},
		{
			name:  "no target",
			lines: []string{"||a.com^$badfilter", "||b.com^"},
			want:  []string{"||b.com^"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, env := newTestFactory()
			rules := f.CreateRules(tc.lines)
			assert.Equal(t, tc.want, ruleTexts(rules))
			assert.Zero(t, env.Errors.Count())
		})
	}
}

func TestFactory_Expands(t *testing.T) {
	f, _ := newTestFactory()

	rules := f.CreateRules([]string{
		"0.0.0.0 a.example.com b.example.com",
		"||c.example.com^$all",
	})

	assert.Equal(t, []string{
		"||a.example.com^",
		"||b.example.com^",
		"||c.example.com^",
		"||c.example.com^$document",
		"||c.example.com^$popup",
	}, ruleTexts(rules))
}

func TestFactory_LineErrorsCountedOnce(t *testing.T) {
	f, env := newTestFactory()

	rules := f.CreateRules([]string{"||a.com^$all,unknownmod", "||b.com^"})
	assert.Equal(t, []string{"||b.com^"}, ruleTexts(rules))
	assert.Equal(t, 1, env.Errors.Count())
}

func TestFactory_Source(t *testing.T) {
	f, _ := newTestFactory()

	rules := f.CreateRules([]string{"||a.com^$all", "||b.com^"})
	require.Len(t, rules, 4)
	for _, r := range rules[:3] {
		assert.Equal(t, "||a.com^$all", r.(*NetworkRule).SourceText())
	}
	assert.Empty(t, rules[3].(*NetworkRule).Source)
	assert.Equal(t, "||b.com^", rules[3].(*NetworkRule).SourceText())
}

func TestFactory_Parallel(t *testing.T) {
	f, env := newTestFactory()

	lines := make([]string, 10000)
	for i := range lines {
		if i%100 == 99 {
			lines[i] = fmt.Sprintf("||site%d.com^$bogus", i)
			continue
		}
		lines[i] = fmt.Sprintf("||site%d.com^", i)
	}

	rules := f.CreateRules(lines)
	require.Len(t, rules, 9900)
	assert.Equal(t, "||site0.com^", rules[0].RuleText())
	assert.Equal(t, "||site100.com^", rules[99].RuleText())
	assert.Equal(t, "||site9998.com^", rules[len(rules)-1].RuleText())
	assert.Equal(t, 100, env.Errors.Count())
}

func TestApplyBadfilters(t *testing.T) {
	f, _ := newTestFactory()
	rules := f.CreateRules([]string{"||a.com^", "||b.com^"})

	assert.Equal(t, rules, ApplyBadfilters(rules, nil))
	assert.Equal(t, []string{"||b.com^"}, ruleTexts(ApplyBadfilters(rules, []string{"||a.com^"})))
}
