package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/leofalp/mealscan/core/repair"
	"github.com/leofalp/mealscan/core/shape"
	"github.com/leofalp/mealscan/nutrition"
	"github.com/leofalp/mealscan/providers/observability"
)

// Pipeline extracts food analyses from model output. It holds no per-call
// state and is safe for concurrent use.
type Pipeline struct {
	invoker Invoker
	opts    options
}

// New creates a Pipeline that regenerates through invoker.
func New(invoker Invoker, opts ...Option) *Pipeline {
	o := options{
		maxParse: DefaultMaxParseRetries,
		maxRegen: DefaultMaxRegenRetries,
		backoff:  DefaultBackoff,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{invoker: invoker, opts: o}
}

// Outcome is the result of a Run.
type Outcome struct {
	Analysis nutrition.FoodAnalysis

	// State is the terminal state, success or fallback.
	State State

	// Attempts counts every parse and regenerate attempt made.
	Attempts int

	// Failures lists the failed attempts in order.
	Failures []*AttemptError

	// Err is an *ExtractionError when the run fell back, nil on success.
	Err error
}

// Succeeded reports whether the analysis came from the model.
func (o Outcome) Succeeded() bool {
	return o.State.Phase == PhaseSuccess
}

// Extract runs the pipeline and returns the analysis. It never fails; on
// exhaustion it returns [Fallback].
func (p *Pipeline) Extract(ctx context.Context, req Request) nutrition.FoodAnalysis {
	return p.Run(ctx, req).Analysis
}

// Run drives the state machine from Parse(0) until success or fallback.
func (p *Pipeline) Run(ctx context.Context, req Request) Outcome {
	expects := req.WantsSuggestion()
	mode := req.mode()

	observer := observability.Resolve(ctx, p.opts.observer)
	ctx, span := observer.StartSpan(ctx, observability.SpanExtract,
		observability.String(observability.AttrExtractMode, string(mode)),
		observability.Bool(observability.AttrExtractExpectsSuggestion, expects),
	)
	defer span.End()
	ctx = observability.ContextWithObserver(ctx, observer)

	var (
		outcome  Outcome
		state    = State{Phase: PhaseParse}
		text     = req.RawText
		analysis nutrition.FoodAnalysis
		cause    error
	)

	for !state.Terminal() {
		if state.Phase == PhaseRegenerate {
			if err := p.beforeRegenerate(ctx, state, span); err != nil {
				cause = err
				state = stateFallback
				break
			}
		}

		var (
			doc shape.Document
			err error
		)
		outcome.Attempts++
		switch state.Phase {
		case PhaseParse:
			text, doc, err = parseAttempt(text, state.Attempt > 0)
		case PhaseRegenerate:
			observer.Counter(observability.MetricExtractRegenerations).Add(ctx, 1)
			doc, err = p.regenerate(ctx, req, mode)
		}

		if err == nil {
			analysis = shape.Shape(doc, expects)
			state = stateSuccess
			break
		}

		failure := &AttemptError{State: state, Err: err}
		outcome.Failures = append(outcome.Failures, failure)
		p.reportFailure(ctx, observer, span, failure)

		state = advance(state, p.opts.maxParse, p.opts.maxRegen)
	}

	if state.Phase == PhaseFallback {
		analysis = Fallback(expects)
		outcome.Err = &ExtractionError{Failures: outcome.Failures, Cause: cause}
	}

	outcome.Analysis = analysis
	outcome.State = state
	p.reportOutcome(ctx, observer, span, outcome)
	return outcome
}

// parseAttempt normalizes and repairs text, then decodes it. Retries also run
// the full jsonrepair pass. The repaired text is returned so the next attempt
// starts from it.
func parseAttempt(text string, deep bool) (string, shape.Document, error) {
	candidate := repair.Repair(repair.NormalizeExpressions(text))
	if deep {
		if repaired, err := repair.DeepRepair(candidate); err == nil {
			candidate = repaired
		}
	}
	doc, err := shape.Decode(candidate)
	return candidate, doc, err
}

func (p *Pipeline) regenerate(ctx context.Context, req Request, mode nutrition.Mode) (shape.Document, error) {
	image := req.Image
	if mode == nutrition.ModeImage {
		if err := image.Validate(); err != nil {
			return shape.Document{}, fmt.Errorf("%w: %w", ErrMissingImage, err)
		}
	} else {
		image = nil
	}

	if p.invoker == nil {
		return shape.Document{}, fmt.Errorf("%w: no invoker configured", ErrModelCall)
	}

	response, err := p.invoker.Invoke(ctx, regenerationPrompt(req), image)
	if err != nil {
		return shape.Document{}, fmt.Errorf("%w: %w", ErrModelCall, err)
	}

	_, doc, err := parseAttempt(response, true)
	return doc, err
}

// beforeRegenerate waits the fixed backoff before every regeneration but the
// first. It fails only if ctx is done.
func (p *Pipeline) beforeRegenerate(ctx context.Context, state State, span observability.Span) error {
	if state.Attempt == 0 || p.opts.backoff <= 0 {
		return ctx.Err()
	}

	span.AddEvent(observability.EventBackoff,
		observability.Duration(observability.AttrDuration, p.opts.backoff),
		observability.Int(observability.AttrExtractAttempt, state.Attempt),
	)

	timer := time.NewTimer(p.opts.backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Pipeline) reportFailure(ctx context.Context, observer observability.Provider, span observability.Span, failure *AttemptError) {
	attrs := []observability.Attribute{
		observability.String(observability.AttrExtractState, failure.State.Phase.String()),
		observability.Int(observability.AttrExtractAttempt, failure.State.Attempt),
		observability.Error(failure.Err),
	}
	span.AddEvent(observability.EventAttemptFailed, attrs...)
	observer.Warn(ctx, "extraction attempt failed", attrs...)
}

func (p *Pipeline) reportOutcome(ctx context.Context, observer observability.Provider, span observability.Span, outcome Outcome) {
	attrs := []observability.Attribute{
		observability.String(observability.AttrExtractOutcome, outcome.State.Phase.String()),
		observability.Int(observability.AttrExtractAttempts, outcome.Attempts),
		observability.Int(observability.AttrExtractFoodItems, len(outcome.Analysis.FoodItems)),
	}
	span.SetAttributes(attrs...)

	observer.Counter(observability.MetricExtractCount).Add(ctx, 1, attrs[0])
	observer.Histogram(observability.MetricExtractAttempts).Record(ctx, float64(outcome.Attempts))

	observability.Finish(span, outcome.Err, "extraction fell back")
	if outcome.Succeeded() {
		observer.Info(ctx, "extraction succeeded", attrs...)
		return
	}

	observer.Counter(observability.MetricExtractFallbackCount).Add(ctx, 1)
	observer.Info(ctx, "extraction fell back", append(attrs, observability.Error(outcome.Err))...)
}
