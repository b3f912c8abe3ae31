package session

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/pubsub"
	"github.com/zjrosen/flowgen/internal/tracing"
)

// EventKind tells the controller which mutation an Event carries.
type EventKind int

const (
	EventFragment EventKind = iota
	EventCompleted
	EventFailed
)

// Event is one step of a running generation, tagged with its session token.
type Event struct {
	Token    Token
	Kind     EventKind
	Fragment string
	Text     string
	Err      error
}

// Generator produces workflow text from a prompt. *generator.Client
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string, complexity generator.Complexity, onFragment func(string)) (string, error)
}

// Runner executes generations and publishes their progress as Events.
type Runner struct {
	gen    Generator
	pub    pubsub.Publisher[Event]
	tracer trace.Tracer
}

// NewRunner creates a runner. A nil tracer disables session spans.
func NewRunner(gen Generator, pub pubsub.Publisher[Event], tracer trace.Tracer) *Runner {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return &Runner{gen: gen, pub: pub, tracer: tracer}
}

// Run generates for tok and publishes every fragment followed by exactly one
// completed or failed event. Fragments are published losslessly and in
// order. Returns the generation error, or the publish error if ctx ended
// while a subscriber was still behind.
func (r *Runner) Run(ctx context.Context, tok Token, prompt string, complexity generator.Complexity) error {
	ctx, span := r.tracer.Start(ctx, tracing.SpanSession, trace.WithAttributes(
		attribute.String(tracing.AttrSessionID, tok.ID),
		attribute.Int64(tracing.AttrSessionToken, int64(tok.Seq)),
	))
	defer span.End()

	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var publishErr error
	text, err := r.gen.Generate(genCtx, prompt, complexity, func(fragment string) {
		if publishErr != nil {
			return
		}
		publishErr = r.pub.PublishWait(ctx, pubsub.UpdatedEvent, Event{Token: tok, Kind: EventFragment, Fragment: fragment})
		if publishErr != nil {
			cancel()
		}
	})
	if publishErr != nil {
		log.Warn(log.CatSession, "Stopped publishing fragments", "session", tok.ID, "error", publishErr)
		tracing.RecordError(span, publishErr, "publish")
		return publishErr
	}

	if err != nil {
		tracing.RecordError(span, err, generator.KindOf(err).String())
		if perr := r.pub.PublishWait(ctx, pubsub.FailedEvent, Event{Token: tok, Kind: EventFailed, Err: err}); perr != nil {
			log.Warn(log.CatSession, "Failure event not delivered", "session", tok.ID, "error", perr)
		}
		return err
	}

	span.SetStatus(codes.Ok, "")
	return r.pub.PublishWait(ctx, pubsub.CompletedEvent, Event{Token: tok, Kind: EventCompleted, Text: text})
}
