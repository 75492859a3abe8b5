package orchestrator

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/valpere/seltran/internal/translator"
)

// Stage identifies one strategy in the fallback sequence.
type Stage int

const (
	DictionaryLookup Stage = iota
	AuthenticatedAPI
	PrimaryEndpoint
	FallbackEndpoint
	SegmentedTranslation
	MissingCredentials
)

var stageNames = map[Stage]string{
	DictionaryLookup:     "dictionary lookup",
	AuthenticatedAPI:     "openapi",
	PrimaryEndpoint:      "primary endpoint",
	FallbackEndpoint:     "fallback endpoint",
	SegmentedTranslation: "segmented translation",
	MissingCredentials:   "credentials",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown stage"
}

// AttemptError records why one stage produced no translation.
type AttemptError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *AttemptError) Error() string {
	return e.Message
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// newAttemptError turns a stage failure into its diagnostic note. Empty
// results read "<stage> returned empty translation"; anything else keeps
// the underlying message (e.g. "HTTP 500").
func newAttemptError(stage Stage, err error) *AttemptError {
	msg := err.Error()
	if errors.Is(err, translator.ErrEmptyResult) {
		msg = stage.String() + " returned empty translation"
	}
	return &AttemptError{Stage: stage, Message: msg, Err: err}
}

// AggregatedError is returned when every stage failed. Its message is each
// attempt's message, in attempt order, joined by "; ".
type AggregatedError struct {
	err error
}

func (e *AggregatedError) Error() string {
	if e.err == nil {
		return "no translation stage succeeded"
	}
	return e.err.Error()
}

func (e *AggregatedError) Unwrap() []error {
	return multierr.Errors(e.err)
}

// Attempts returns the recorded stage failures in attempt order.
func (e *AggregatedError) Attempts() []*AttemptError {
	var out []*AttemptError
	for _, err := range multierr.Errors(e.err) {
		var ae *AttemptError
		if errors.As(err, &ae) {
			out = append(out, ae)
		}
	}
	return out
}
