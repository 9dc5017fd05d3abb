// Package distributor assembles compiled buckets into the final, size limited, rule lists.
package distributor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"safariconverter/blocker"
	"safariconverter/compiler"
)

// WebKit applies entries top to bottom and ignore-previous-rules only cancels what
// precedes it, so every exception bucket follows the buckets it overrides.
// Cutting the list short drops the tail first.
var mainOrder = []compiler.Bucket{
	compiler.BucketCSSBlockingWide,
	compiler.BucketCSSBlockingGenericDomainSensitive,
	compiler.BucketCSSBlockingGenericHideExceptions,
	compiler.BucketCSSBlockingDomainSensitive,
	compiler.BucketCSSElemhide,
	compiler.BucketURLBlocking,
	compiler.BucketOther,
	compiler.BucketImportant,
	compiler.BucketImportantExceptions,
	compiler.BucketDocumentExceptions,
}

var advancedOrder = []compiler.Bucket{
	compiler.BucketExtendedCSSBlockingWide,
	compiler.BucketExtendedCSSBlockingGenericDomainSensitive,
	compiler.BucketCSSBlockingGenericHideExceptions,
	compiler.BucketExtendedCSSBlockingDomainSensitive,
	compiler.BucketCSSInjects,
	compiler.BucketCSSElemhide,
	compiler.BucketScript,
	compiler.BucketScriptlets,
	compiler.BucketScriptJsInjectExceptions,
	compiler.BucketDocumentExceptions,
}

// Distributor builds conversion results within a rules limit.
type Distributor struct {
	limit            int
	advancedBlocking bool
	format           blocker.AdvancedFormat
	log              zerolog.Logger
}

// New creates a Distributor. A limit of zero or less disables truncation.
func New(limit int, advancedBlocking bool, format blocker.AdvancedFormat, log zerolog.Logger) *Distributor {
	return &Distributor{
		limit:            limit,
		advancedBlocking: advancedBlocking,
		format:           format,
		log:              log,
	}
}

// CreateConversionResult orders the compiled entries, applies the rules limit and
// encodes the lists.
func (d *Distributor) CreateConversionResult(data *compiler.Result) (*ConversionResult, error) {
	result := &ConversionResult{
		ErrorsCount: data.ErrorsCount,
		Message:     data.Message,
	}

	entries := data.Entries(mainOrder...)
	result.TotalConvertedCount = len(entries)
	if d.limit > 0 && len(entries) > d.limit {
		result.OverLimit = true
		entries = entries[:d.limit]
		d.log.Warn().
			Int("limit", d.limit).
			Int("dropped", result.TotalConvertedCount-d.limit).
			Msg("Rules limit exceeded")
	}
	result.Entries = entries
	result.ConvertedCount = len(entries)

	converted, err := encode(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rules: %w", err)
	}
	result.Converted = converted

	if !d.advancedBlocking {
		return result, nil
	}

	if d.format == blocker.FormatText {
		result.AdvancedBlockingText = strings.Join(data.AdvancedRulesTexts, "\n")
		result.AdvancedBlockingConvertedCount = len(data.AdvancedRulesTexts)
		return result, nil
	}

	advanced := data.Entries(advancedOrder...)
	result.AdvancedEntries = advanced
	result.AdvancedBlockingConvertedCount = len(advanced)
	result.AdvancedBlocking, err = encode(advanced)
	if err != nil {
		return nil, fmt.Errorf("failed to encode advanced rules: %w", err)
	}

	return result, nil
}

// encode renders entries as a JSON array without HTML escaping.
func encode(entries []blocker.Entry) (string, error) {
	if entries == nil {
		entries = []blocker.Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
