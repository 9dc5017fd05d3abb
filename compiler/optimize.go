package compiler

import (
	"encoding/json"
	"fmt"
	"strings"

	"safariconverter/blocker"
)

// maxSelectorsPerEntry caps the length of merged selector lists.
const maxSelectorsPerEntry = 250

// Strategy rewrites one bucket into an equivalent, usually shorter, list of entries.
type Strategy func(entries []blocker.Entry) []blocker.Entry

// DefaultStrategies returns the optimizations applied when Options.Optimize is set.
// Every bucket loses exact duplicates; plain CSS hiding buckets also merge selectors.
func DefaultStrategies() map[Bucket]Strategy {
	strategies := make(map[Bucket]Strategy, bucketCount)
	for b := Bucket(0); b < bucketCount; b++ {
		strategies[b] = RemoveDuplicates
	}

	mergeCSS := Chain(RemoveDuplicates, MergeSelectors)
	strategies[BucketCSSBlockingWide] = mergeCSS
	strategies[BucketCSSBlockingDomainSensitive] = mergeCSS
	strategies[BucketCSSBlockingGenericDomainSensitive] = mergeCSS
	return strategies
}

// Chain applies strategies in order.
func Chain(strategies ...Strategy) Strategy {
	return func(entries []blocker.Entry) []blocker.Entry {
		for _, s := range strategies {
			entries = s(entries)
		}
		return entries
	}
}

// RemoveDuplicates keeps the first of every set of identical entries.
func RemoveDuplicates(entries []blocker.Entry) []blocker.Entry {
	seen := make(map[string]struct{}, len(entries))
	result := make([]blocker.Entry, 0, len(entries))
	for _, e := range entries {
		key := entryKey(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, e)
	}
	return result
}

// MergeSelectors joins css-display-none entries with identical triggers into one
// entry with a selector list. Other entries are kept as they are.
// Merged entries take the position of the first entry of their group.
func MergeSelectors(entries []blocker.Entry) []blocker.Entry {
	type group struct {
		index     int
		selectors []string
	}

	var result []blocker.Entry
	open := make(map[string]*group)

	for _, e := range entries {
		if e.Action.Type != blocker.ActionTypeCSSDisplayNone {
			result = append(result, e)
			continue
		}

		key := triggerKey(e.Trigger)
		g, ok := open[key]
		if !ok || len(g.selectors) >= maxSelectorsPerEntry {
			g = &group{index: len(result)}
			open[key] = g
			result = append(result, e)
		}
		g.selectors = append(g.selectors, e.Action.Selector)
		result[g.index].Action.Selector = strings.Join(g.selectors, ", ")
	}
	return result
}

func entryKey(e blocker.Entry) string {
	return jsonKey(e)
}

func triggerKey(t blocker.Trigger) string {
	return jsonKey(t)
}

// jsonKey encodes v as a comparison key. Entries hold only strings, bools and
// string slices, so encoding never fails.
func jsonKey(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("compiler: encode key: %v", err))
	}
	return string(data)
}
