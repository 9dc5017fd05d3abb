package distributor

import "safariconverter/blocker"

// ConversionResult is the outcome of one conversion.
type ConversionResult struct {
	// TotalConvertedCount is the number of entries before the limit was applied.
	TotalConvertedCount int `json:"totalConvertedCount"`
	// ConvertedCount is the number of entries in Converted.
	ConvertedCount int  `json:"convertedCount"`
	ErrorsCount    int  `json:"errorsCount"`
	OverLimit      bool `json:"overLimit"`
	// Converted is the content blocker JSON array.
	Converted string `json:"converted"`

	AdvancedBlockingConvertedCount int `json:"advancedBlockingConvertedCount"`
	// AdvancedBlocking is the JSON array of advanced entries, json format only.
	AdvancedBlocking string `json:"advancedBlocking,omitempty"`
	// AdvancedBlockingText holds advanced rules one per line, txt format only.
	AdvancedBlockingText string `json:"advancedBlockingText,omitempty"`

	Message string `json:"message"`

	Entries         []blocker.Entry `json:"-"`
	AdvancedEntries []blocker.Entry `json:"-"`
}

// Dropped returns the number of entries cut off by the rules limit.
func (r *ConversionResult) Dropped() int {
	return r.TotalConvertedCount - r.ConvertedCount
}

// EmptyResult returns a result with no entries.
func EmptyResult() *ConversionResult {
	return &ConversionResult{Converted: "[]"}
}
