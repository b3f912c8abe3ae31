package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanGenerate = "generator.generate"
	SpanSession  = "session.run"
)

// Span attribute keys.
const (
	AttrSessionID     = "session.id"
	AttrSessionToken  = "session.token"
	AttrModel         = "gen.model"
	AttrComplexity    = "gen.complexity"
	AttrPromptBytes   = "gen.prompt_bytes"
	AttrFragmentCount = "gen.fragments"
	AttrResponseBytes = "gen.response_bytes"
	AttrErrorKind     = "error.kind"
)

// Span event names.
const (
	EventFirstFragment = "first_fragment"
	EventFenceStripped = "fence_stripped"
)

// RecordError marks span as failed with a classified error kind.
func RecordError(span trace.Span, err error, kind string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorKind, kind))
}
