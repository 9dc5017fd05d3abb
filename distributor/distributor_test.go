package distributor

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safariconverter/blocker"
	"safariconverter/compiler"
)

func entry(name string) blocker.Entry {
	return blocker.Entry{
		Trigger: blocker.Trigger{URLFilter: name},
		Action:  blocker.Action{Type: blocker.ActionTypeBlock},
	}
}

// filledResult puts one entry named after its bucket into every bucket.
func filledResult() *compiler.Result {
	r := &compiler.Result{}
	for b := compiler.BucketURLBlocking; b <= compiler.BucketOther; b++ {
		p := r.Bucket(b)
		*p = append(*p, entry(fmt.Sprintf("bucket-%d", b)))
	}
	return r
}

func filters(entries []blocker.Entry) []string {
	result := make([]string, len(entries))
	for i, e := range entries {
		result[i] = e.Trigger.URLFilter
	}
	return result
}

func names(buckets ...compiler.Bucket) []string {
	result := make([]string, len(buckets))
	for i, b := range buckets {
		result[i] = fmt.Sprintf("bucket-%d", b)
	}
	return result
}

func TestCreateConversionResult_Order(t *testing.T) {
	d := New(0, true, blocker.FormatJSON, zerolog.Nop())

	result, err := d.CreateConversionResult(filledResult())
	require.NoError(t, err)

	assert.Equal(t, names(
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
	), filters(result.Entries))

	assert.Equal(t, names(
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
	), filters(result.AdvancedEntries))

	assert.Equal(t, 10, result.ConvertedCount)
	assert.Equal(t, 10, result.AdvancedBlockingConvertedCount)
	assert.False(t, result.OverLimit)
}

func TestCreateConversionResult_Limit(t *testing.T) {
	data := &compiler.Result{}
	for i := 0; i < 10; i++ {
		data.URLBlocking = append(data.URLBlocking, entry(fmt.Sprintf("block-%d", i)))
	}
	data.DocumentExceptions = append(data.DocumentExceptions, entry("document"))
	data.CSSBlockingWide = append(data.CSSBlockingWide, entry("css"))

	tests := []struct {
		limit     int
		converted int
		overLimit bool
	}{
		{0, 12, false},
		{12, 12, false},
		{100, 12, false},
		{11, 11, true},
		{5, 5, true},
		{1, 1, true},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.limit), func(t *testing.T) {
			result, err := New(tc.limit, false, blocker.FormatJSON, zerolog.Nop()).CreateConversionResult(data)
			require.NoError(t, err)

			assert.Equal(t, 12, result.TotalConvertedCount)
			assert.Equal(t, tc.converted, result.ConvertedCount)
			assert.Equal(t, tc.converted, len(result.Entries))
			assert.Equal(t, 12-tc.converted, result.Dropped())
			assert.Equal(t, tc.overLimit, result.OverLimit)

			var decoded []blocker.Entry
			require.NoError(t, json.Unmarshal([]byte(result.Converted), &decoded))
			assert.Len(t, decoded, tc.converted)
			assert.Equal(t, "css", decoded[0].Trigger.URLFilter)
		})
	}
}

func TestCreateConversionResult_Empty(t *testing.T) {
	result, err := New(100, true, blocker.FormatJSON, zerolog.Nop()).CreateConversionResult(&compiler.Result{})
	require.NoError(t, err)

	assert.Equal(t, "[]", result.Converted)
	assert.Equal(t, "[]", result.AdvancedBlocking)
	assert.Zero(t, result.ConvertedCount)
	assert.Zero(t, result.TotalConvertedCount)
	assert.False(t, result.OverLimit)
}

func TestCreateConversionResult_AdvancedDisabled(t *testing.T) {
	result, err := New(0, false, blocker.FormatJSON, zerolog.Nop()).CreateConversionResult(filledResult())
	require.NoError(t, err)

	assert.Empty(t, result.AdvancedBlocking)
	assert.Empty(t, result.AdvancedEntries)
	assert.Zero(t, result.AdvancedBlockingConvertedCount)
}

func TestCreateConversionResult_Text(t *testing.T) {
	data := filledResult()
	data.AdvancedRulesTexts = []string{"example.com#%#window.a = 1;", "@@||example.com^$document"}
	data.Message = "summary"
	data.ErrorsCount = 3

	result, err := New(0, true, blocker.FormatText, zerolog.Nop()).CreateConversionResult(data)
	require.NoError(t, err)

	assert.Equal(t, "example.com#%#window.a = 1;\n@@||example.com^$document", result.AdvancedBlockingText)
	assert.Equal(t, 2, result.AdvancedBlockingConvertedCount)
	assert.Empty(t, result.AdvancedBlocking)
	assert.Equal(t, "summary", result.Message)
	assert.Equal(t, 3, result.ErrorsCount)
}

func TestEncode_NoHTMLEscaping(t *testing.T) {
	e := blocker.Entry{
		Trigger: blocker.Trigger{URLFilter: ".*"},
		Action:  blocker.Action{Type: blocker.ActionTypeCSSDisplayNone, Selector: "div > a[href*=\"&ad\"]"},
	}

	out, err := encode([]blocker.Entry{e})
	require.NoError(t, err)
	assert.Equal(t, `[{"trigger":{"url-filter":".*"},"action":{"type":"css-display-none","selector":"div > a[href*=\"&ad\"]"}}]`, out)
}
