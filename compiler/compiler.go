// Package compiler turns parsed rules into WebKit content blocker entries grouped by category.
package compiler

import "safariconverter/parser"

// Options controls how rules are compiled.
type Options struct {
	// Optimize applies Strategies to every bucket after compilation.
	Optimize bool
	// AdvancedBlocking compiles scripts, scriptlets, extended CSS and CSS injections.
	// Without it such rules are left out.
	AdvancedBlocking bool
	// Strategies overrides DefaultStrategies when Optimize is set.
	Strategies map[Bucket]Strategy
}

// Compiler compiles rules for one conversion.
type Compiler struct {
	env     *parser.Env
	opts    Options
	builder entryBuilder
}

// New creates a Compiler reporting rule errors into env.
func New(env *parser.Env, opts Options) *Compiler {
	if opts.Optimize && opts.Strategies == nil {
		opts.Strategies = DefaultStrategies()
	}
	return &Compiler{
		env:     env,
		opts:    opts,
		builder: entryBuilder{version: env.Version},
	}
}

// Compile buckets rules into a Result. Rules that fail to compile are counted in the
// env errors counter and dropped.
func (c *Compiler) Compile(rules []parser.Rule) *Result {
	result := &Result{RulesCount: len(rules)}

	// source lines that already failed to compile
	failed := make(map[string]struct{})

	var cosmetic []*parser.CosmeticRule
	for _, r := range rules {
		switch v := r.(type) {
		case *parser.NetworkRule:
			if err := c.compileNetwork(result, v); err != nil {
				if _, ok := failed[v.SourceText()]; !ok {
					failed[v.SourceText()] = struct{}{}
					c.env.Fail(v.Text, err)
				}
			}
		case *parser.CosmeticRule:
			cosmetic = append(cosmetic, v)
		}
	}

	for _, r := range applyCosmeticExceptions(cosmetic) {
		c.compileCosmetic(result, r)
	}

	if c.opts.Optimize {
		for b, strategy := range c.opts.Strategies {
			p := result.Bucket(b)
			*p = strategy(*p)
		}
	}

	return result
}

func (c *Compiler) compileNetwork(result *Result, r *parser.NetworkRule) error {
	entry, err := c.builder.networkEntry(r)
	if err != nil {
		return err
	}

	m := r.Modifiers
	if !r.Exception {
		if m.Important {
			result.add(BucketImportant, entry)
		} else {
			result.add(BucketURLBlocking, entry)
		}
		return nil
	}

	switch {
	case m.Document:
		result.add(BucketDocumentExceptions, entry)
	case m.Important:
		result.add(BucketImportantExceptions, entry)
	case m.Elemhide || m.Generichide || m.Jsinject:
		if m.Elemhide {
			result.add(BucketCSSElemhide, entry)
		}
		if m.Generichide {
			result.add(BucketCSSBlockingGenericHideExceptions, entry)
		}
		if m.Jsinject {
			result.add(BucketScriptJsInjectExceptions, entry)
		}
	default:
		result.add(BucketOther, entry)
	}
	return nil
}

func (c *Compiler) compileCosmetic(result *Result, r *parser.CosmeticRule) {
	if parser.IsAdvanced(r) && !c.opts.AdvancedBlocking {
		c.env.Log.Debug().Str("rule", r.Text).Msg("Skipping advanced rule")
		return
	}

	entry, err := c.builder.cosmeticEntry(r)
	if err != nil {
		c.env.Fail(r.Text, err)
		return
	}

	switch r.Kind {
	case parser.KindCSSInjection:
		result.add(BucketCSSInjects, entry)
	case parser.KindScript:
		result.add(BucketScript, entry)
	case parser.KindScriptlet:
		result.add(BucketScriptlets, entry)
	case parser.KindElementHiding:
		result.add(hidingBucket(r), entry)
	}
}

// hidingBucket picks the element hiding bucket by the rule's domain scope.
func hidingBucket(r *parser.CosmeticRule) Bucket {
	switch {
	case r.IsWide() && r.ExtendedCSS:
		return BucketExtendedCSSBlockingWide
	case r.IsWide():
		return BucketCSSBlockingWide
	case len(r.PermittedDomains) > 0 && r.ExtendedCSS:
		return BucketExtendedCSSBlockingDomainSensitive
	case len(r.PermittedDomains) > 0:
		return BucketCSSBlockingDomainSensitive
	case r.ExtendedCSS:
		return BucketExtendedCSSBlockingGenericDomainSensitive
	default:
		return BucketCSSBlockingGenericDomainSensitive
	}
}
