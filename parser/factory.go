package parser

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// Inputs shorter than this are parsed on the calling goroutine.
	parallelThreshold = 4096
	chunkSize         = 1024
)

// Factory creates rules from source lines.
type Factory struct {
	env *Env
}

// NewFactory creates a Factory reporting errors into env.
func NewFactory(env *Env) *Factory {
	return &Factory{env: env}
}

// CreateRules normalizes and parses lines, then drops every rule negated by a
// $badfilter rule. Input order is preserved.
func (f *Factory) CreateRules(lines []string) []Rule {
	var result []Rule
	var badfilters []string

	for _, parsed := range f.parseAll(lines) {
		for _, r := range parsed {
			if n, ok := r.(*NetworkRule); ok && n.Modifiers.Badfilter {
				badfilters = append(badfilters, n.Badfilter)
				continue
			}
			result = append(result, r)
		}
	}

	return ApplyBadfilters(result, badfilters)
}

// ApplyBadfilters removes rules whose text equals one of the badfilter targets.
func ApplyBadfilters(rules []Rule, badfilters []string) []Rule {
	if len(badfilters) == 0 {
		return rules
	}

	negated := make(map[string]struct{}, len(badfilters))
	for _, text := range badfilters {
		negated[text] = struct{}{}
	}

	result := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if _, ok := negated[r.RuleText()]; !ok {
			result = append(result, r)
		}
	}
	return result
}

// parseAll returns the rules of every line at the line's index.
func (f *Factory) parseAll(lines []string) [][]Rule {
	parsed := make([][]Rule, len(lines))

	if len(lines) < parallelThreshold {
		for i, line := range lines {
			parsed[i] = f.parseLine(line)
		}
		return parsed
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < len(lines); start += chunkSize {
		start, end := start, min(start+chunkSize, len(lines))
		g.Go(func() error {
			for i := start; i < end; i++ {
				parsed[i] = f.parseLine(lines[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return parsed
}

// parseLine parses every rule a line expands to. A line counts as at most one error.
func (f *Factory) parseLine(line string) []Rule {
	var rules []Rule
	failed := false
	for _, text := range Normalize(line) {
		rule, err := ParseRule(text)
		if err != nil {
			if !failed {
				f.env.Fail(text, err)
				failed = true
			}
			continue
		}
		if rule == nil {
			continue
		}
		if n, ok := rule.(*NetworkRule); ok && text != line {
			n.Source = line
		}
		rules = append(rules, rule)
	}
	return rules
}
