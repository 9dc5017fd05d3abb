// Package converter converts AdGuard filter rules into Safari content blocker lists.
package converter

import (
	"fmt"

	"github.com/rs/zerolog"

	"safariconverter/blocker"
	"safariconverter/compiler"
	"safariconverter/distributor"
	"safariconverter/parser"
)

// Options configures a single conversion.
type Options struct {
	Version                blocker.Version
	Optimize               bool
	AdvancedBlocking       bool
	AdvancedBlockingFormat blocker.AdvancedFormat
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Version:                blocker.DefaultVersion,
		AdvancedBlockingFormat: blocker.FormatJSON,
	}
}

// Converter runs the conversion pipeline. It holds no per-conversion state,
// so one Converter may serve concurrent conversions.
type Converter struct {
	log zerolog.Logger
}

// New creates a Converter that reports diagnostics to log.
func New(log zerolog.Logger) *Converter {
	return &Converter{log: log}
}

// ConvertArray converts rule lines. Errors are returned only for invalid options;
// rules that cannot be converted are counted in the result instead.
func (c *Converter) ConvertArray(rules []string, opts Options) (*distributor.ConversionResult, error) {
	if !opts.Version.Valid() {
		return nil, fmt.Errorf("%w: %d", blocker.ErrUnsupportedVersion, int(opts.Version))
	}
	if opts.AdvancedBlockingFormat == "" {
		opts.AdvancedBlockingFormat = blocker.FormatJSON
	}
	if !opts.AdvancedBlockingFormat.Valid() {
		return nil, fmt.Errorf("%w: %s", blocker.ErrUnsupportedFormat, opts.AdvancedBlockingFormat)
	}

	log := c.log.With().Stringer("safari", opts.Version).Logger()

	if len(rules) == 0 || (len(rules) == 1 && rules[0] == "") {
		log.Info().Msg("No rules passed")
		return distributor.EmptyResult(), nil
	}

	env := parser.NewEnv(opts.Version, log)
	parsed := parser.NewFactory(env).CreateRules(rules)

	comp := compiler.New(env, compiler.Options{
		Optimize:         opts.Optimize,
		AdvancedBlocking: opts.AdvancedBlocking,
	})

	var result *compiler.Result
	if opts.AdvancedBlockingFormat == blocker.FormatText {
		vetted := VetRules(parsed)
		result = comp.Compile(vetted.Simple)
		result.AdvancedRulesTexts = ruleTexts(vetted.Advanced)
	} else {
		result = comp.Compile(parsed)
	}

	result.ErrorsCount = env.Errors.Count()
	result.Message = result.LogMessage()
	log.Info().Msg(result.Message)

	conversion, err := distributor.New(opts.Version.RulesLimit(), opts.AdvancedBlocking, opts.AdvancedBlockingFormat, log).
		CreateConversionResult(result)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversion result: %w", err)
	}
	return conversion, nil
}

func ruleTexts(rules []parser.Rule) []string {
	texts := make([]string, len(rules))
	for i, r := range rules {
		texts[i] = r.RuleText()
	}
	return texts
}
