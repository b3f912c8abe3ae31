// Package generator turns a natural-language description into workflow JSON
// by streaming it from a generative-language service.
package generator

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/tracing"
	"github.com/zjrosen/flowgen/internal/workflow"
)

// Defaults for Config.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = float32(0.4)
)

// Config holds the upstream settings. It is validated once, when the client
// is constructed.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	return c
}

// Validate reports configuration problems that make every request fail.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingCredential
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2 (got %v)", c.Temperature)
	}
	return nil
}

// Request is what the streamer sends upstream. No response schema is
// attached: parameters and connections use dynamic keys that strict object
// schemas cannot express.
type Request struct {
	Model             string
	Prompt            string
	SystemInstruction string
	Temperature       float32
}

// Streamer performs one streamed call. Each yielded string is one fragment;
// a non-nil error ends the stream.
type Streamer interface {
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}

// Client generates workflow documents.
type Client struct {
	cfg      Config
	cfgErr   error
	streamer Streamer
	tracer   trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithTracer sets the tracer used for generation spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// New creates a client. A configuration error does not fail construction; it
// is returned by Err and by every Generate call before anything is sent.
func New(cfg Config, streamer Streamer, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:      cfg,
		cfgErr:   cfg.Validate(),
		streamer: streamer,
		tracer:   noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfgErr != nil {
		log.Warn(log.CatConfig, "Generator configuration invalid", "error", c.cfgErr)
	}
	return c
}

// Err returns the configuration error detected at construction, if any.
func (c *Client) Err() error {
	if c.cfgErr == nil {
		return nil
	}
	return &GenerationError{Kind: KindConfig, Err: c.cfgErr}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Generate sends prompt with the complexity instruction and returns the
// cleaned JSON text. onFragment, if non-nil, is called synchronously for
// every non-empty fragment in arrival order, before the fragment is added
// to the accumulated response. Failures are never retried.
func (c *Client) Generate(ctx context.Context, prompt string, complexity Complexity, onFragment func(string)) (string, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanGenerate, trace.WithAttributes(
		attribute.String(tracing.AttrModel, c.cfg.Model),
		attribute.String(tracing.AttrComplexity, string(complexity)),
		attribute.Int(tracing.AttrPromptBytes, len(prompt)),
	))
	defer span.End()

	fail := func(err *GenerationError) (string, error) {
		tracing.RecordError(span, err, err.Kind.String())
		log.Warn(log.CatGen, "Generation failed", "kind", err.Kind, "error", err.Err)
		return "", err
	}

	if c.cfgErr != nil {
		return fail(&GenerationError{Kind: KindConfig, Err: c.cfgErr})
	}
	if c.streamer == nil {
		return fail(&GenerationError{Kind: KindConfig, Err: fmt.Errorf("no upstream streamer configured")})
	}

	req := Request{
		Model:             c.cfg.Model,
		Prompt:            BuildPrompt(prompt, complexity),
		SystemInstruction: SystemInstruction,
		Temperature:       c.cfg.Temperature,
	}
	log.Info(log.CatGen, "Starting generation", "model", req.Model, "complexity", complexity, "promptBytes", len(prompt))

	var (
		full      strings.Builder
		fragments int
	)
	for fragment, err := range c.streamer.Stream(ctx, req) {
		if err != nil {
			span.SetAttributes(attribute.Int(tracing.AttrFragmentCount, fragments))
			return fail(&GenerationError{Kind: KindTransport, Err: err})
		}
		if fragment == "" {
			continue
		}
		if fragments == 0 {
			span.AddEvent(tracing.EventFirstFragment)
		}
		fragments++
		if onFragment != nil {
			onFragment(fragment)
		}
		full.WriteString(fragment)
	}
	span.SetAttributes(
		attribute.Int(tracing.AttrFragmentCount, fragments),
		attribute.Int(tracing.AttrResponseBytes, full.Len()),
	)

	if full.Len() == 0 {
		return fail(&GenerationError{Kind: KindTransport, Err: ErrEmptyResponse})
	}

	raw := full.String()
	cleaned := workflow.StripFence(raw)
	if len(cleaned) != len(strings.TrimSpace(raw)) {
		span.AddEvent(tracing.EventFenceStripped)
	}
	if err := workflow.Validate(cleaned); err != nil {
		return fail(&GenerationError{Kind: KindMalformed, Err: fmt.Errorf("%w: %v", ErrInvalidJSON, err)})
	}

	span.SetStatus(codes.Ok, "")
	log.Info(log.CatGen, "Generation complete", "fragments", fragments, "bytes", len(cleaned))
	return cleaned, nil
}
