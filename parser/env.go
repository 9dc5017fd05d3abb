package parser

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"safariconverter/blocker"
)

// ErrorsCounter counts rules that could not be converted.
type ErrorsCounter struct {
	count atomic.Int64
}

// Add records one failed rule.
func (c *ErrorsCounter) Add() {
	c.count.Add(1)
}

// Count returns the number of failed rules so far.
func (c *ErrorsCounter) Count() int {
	return int(c.count.Load())
}

// Env carries the state of a single conversion through every pipeline stage.
// Create one per conversion; nothing in it is shared between conversions.
type Env struct {
	Version blocker.Version
	Errors  *ErrorsCounter
	Log     zerolog.Logger
}

// NewEnv creates an Env with a fresh errors counter.
func NewEnv(version blocker.Version, log zerolog.Logger) *Env {
	return &Env{
		Version: version,
		Errors:  &ErrorsCounter{},
		Log:     log,
	}
}

// Fail counts a rule error and reports it to the log sink.
func (e *Env) Fail(ruleText string, err error) {
	e.Errors.Add()
	e.Log.Warn().Err(err).Str("rule", ruleText).Msg("Failed to convert rule")
}
