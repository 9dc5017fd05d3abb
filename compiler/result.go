package compiler

import (
	"fmt"
	"strings"

	"safariconverter/blocker"
)

// Bucket identifies one category of compiled entries.
type Bucket int

const (
	BucketURLBlocking Bucket = iota
	BucketImportant
	BucketCSSBlockingWide
	BucketCSSBlockingDomainSensitive
	BucketCSSBlockingGenericDomainSensitive
	BucketCSSBlockingGenericHideExceptions
	BucketCSSInjects
	BucketScript
	BucketScriptlets
	BucketExtendedCSSBlockingWide
	BucketExtendedCSSBlockingGenericDomainSensitive
	BucketExtendedCSSBlockingDomainSensitive
	BucketCSSElemhide
	BucketImportantExceptions
	BucketDocumentExceptions
	BucketScriptJsInjectExceptions
	BucketOther

	bucketCount
)

// Result holds compiled entries grouped by category.
type Result struct {
	URLBlocking                               []blocker.Entry
	Important                                 []blocker.Entry
	CSSBlockingWide                           []blocker.Entry
	CSSBlockingDomainSensitive                []blocker.Entry
	CSSBlockingGenericDomainSensitive         []blocker.Entry
	CSSBlockingGenericHideExceptions          []blocker.Entry
	CSSInjects                                []blocker.Entry
	Script                                    []blocker.Entry
	Scriptlets                                []blocker.Entry
	ExtendedCSSBlockingWide                   []blocker.Entry
	ExtendedCSSBlockingGenericDomainSensitive []blocker.Entry
	ExtendedCSSBlockingDomainSensitive        []blocker.Entry
	CSSElemhide                               []blocker.Entry
	ImportantExceptions                       []blocker.Entry
	DocumentExceptions                        []blocker.Entry
	ScriptJsInjectExceptions                  []blocker.Entry
	Other                                     []blocker.Entry

	// RulesCount is the number of rules passed to the compiler.
	RulesCount int
	// ErrorsCount is filled in by the caller once parsing and compilation are done.
	ErrorsCount int
	// Message is the human readable summary, see LogMessage.
	Message string
	// AdvancedRulesTexts holds advanced rules routed around the compiler in text mode.
	AdvancedRulesTexts []string
}

// Bucket returns a pointer to the entries of bucket b.
func (r *Result) Bucket(b Bucket) *[]blocker.Entry {
	switch b {
	case BucketURLBlocking:
		return &r.URLBlocking
	case BucketImportant:
		return &r.Important
	case BucketCSSBlockingWide:
		return &r.CSSBlockingWide
	case BucketCSSBlockingDomainSensitive:
		return &r.CSSBlockingDomainSensitive
	case BucketCSSBlockingGenericDomainSensitive:
		return &r.CSSBlockingGenericDomainSensitive
	case BucketCSSBlockingGenericHideExceptions:
		return &r.CSSBlockingGenericHideExceptions
	case BucketCSSInjects:
		return &r.CSSInjects
	case BucketScript:
		return &r.Script
	case BucketScriptlets:
		return &r.Scriptlets
	case BucketExtendedCSSBlockingWide:
		return &r.ExtendedCSSBlockingWide
	case BucketExtendedCSSBlockingGenericDomainSensitive:
		return &r.ExtendedCSSBlockingGenericDomainSensitive
	case BucketExtendedCSSBlockingDomainSensitive:
		return &r.ExtendedCSSBlockingDomainSensitive
	case BucketCSSElemhide:
		return &r.CSSElemhide
	case BucketImportantExceptions:
		return &r.ImportantExceptions
	case BucketDocumentExceptions:
		return &r.DocumentExceptions
	case BucketScriptJsInjectExceptions:
		return &r.ScriptJsInjectExceptions
	case BucketOther:
		return &r.Other
	}
	panic(fmt.Sprintf("compiler: unknown bucket %d", b))
}

// Entries returns every entry of the given buckets, in bucket order.
func (r *Result) Entries(buckets ...Bucket) []blocker.Entry {
	var entries []blocker.Entry
	for _, b := range buckets {
		entries = append(entries, *r.Bucket(b)...)
	}
	return entries
}

func (r *Result) add(b Bucket, e blocker.Entry) {
	p := r.Bucket(b)
	*p = append(*p, e)
}

// LogMessage builds the conversion summary, one line per bucket.
func (r *Result) LogMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rules converted:  %d (%d errors)", r.RulesCount, r.ErrorsCount)

	lines := []struct {
		title string
		count int
	}{
		{"Basic rules", len(r.URLBlocking)},
		{"Basic important rules", len(r.Important)},
		{"Elemhide rules (wide)", len(r.CSSBlockingWide)},
		{"Elemhide rules (generic domain sensitive)", len(r.CSSBlockingGenericDomainSensitive)},
		{"Exceptions Elemhide (wide)", len(r.CSSBlockingGenericHideExceptions)},
		{"Elemhide rules (domain-sensitive)", len(r.CSSBlockingDomainSensitive)},
		{"CssInject rules (domain-sensitive)", len(r.CSSInjects)},
		{"Script rules", len(r.Script)},
		{"Scriptlets rules", len(r.Scriptlets)},
		{"Extended Css Elemhide rules (wide)", len(r.ExtendedCSSBlockingWide)},
		{"Extended Css Elemhide rules (generic domain sensitive)", len(r.ExtendedCSSBlockingGenericDomainSensitive)},
		{"Extended Css Elemhide rules (domain-sensitive)", len(r.ExtendedCSSBlockingDomainSensitive)},
		{"Exceptions (elemhide)", len(r.CSSElemhide)},
		{"Exceptions (important)", len(r.ImportantExceptions)},
		{"Exceptions (document)", len(r.DocumentExceptions)},
		{"Exceptions (jsinject)", len(r.ScriptJsInjectExceptions)},
		{"Exceptions (other)", len(r.Other)},
		{"Advanced rules (other)", len(r.AdvancedRulesTexts)},
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "\n%s: %d", l.title, l.count)
	}
	return b.String()
}
