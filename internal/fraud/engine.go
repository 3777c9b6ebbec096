package fraud

import (
	"context"
	"fmt"
)

// DefaultThreshold is the score cutoff above which a transaction is
// flagged. Strict: a score of exactly the threshold is not fraud.
const DefaultThreshold = 0.7

// Verdict is an evaluator's output. Flagged is always Score > threshold;
// Flags names the signals that fired (rule evaluator only, nil for the
// model path).
type Verdict struct {
	Score   float64  `json:"score"`
	Flagged bool     `json:"flagged"`
	Flags   []string `json:"flags,omitempty"`
}

// Evaluator is the single fraud-scoring capability. The model-backed
// engine and the rule-based evaluator both implement it, so callers can
// swap or compose them via configuration.
type Evaluator interface {
	Evaluate(ctx context.Context, in Input) (Verdict, error)
}

// Engine scores transactions with a loaded model bundle. Evaluate is
// pure and synchronous: it performs no I/O and never retries, since a
// failure is either bad input or a broken artifact.
type Engine struct {
	bundle    *Bundle
	builder   *FeatureBuilder
	threshold float64
}

func NewEngine(bundle *Bundle, threshold float64) (*Engine, error) {
	builder := NewFeatureBuilder()
	if err := builder.Supports(bundle.Features()); err != nil {
		return nil, fmt.Errorf("%w: bundle schema is not buildable: %v", ErrModelLoad, err)
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("%w: threshold %v outside (0,1)", ErrModelLoad, threshold)
	}

	return &Engine{
		bundle:    bundle,
		builder:   builder,
		threshold: threshold,
	}, nil
}

func (e *Engine) Evaluate(_ context.Context, in Input) (Verdict, error) {
	vector, err := e.builder.Build(in, e.bundle.Features())
	if err != nil {
		return Verdict{}, err
	}

	score, err := e.bundle.ScoreProbability(vector)
	if err != nil {
		return Verdict{}, err
	}

	return Verdict{
		Score:   score,
		Flagged: score > e.threshold,
	}, nil
}

// CompositeEvaluator runs every evaluator and flags when any of them
// flags. The reported score is the highest individual score.
type CompositeEvaluator struct {
	evaluators []Evaluator
}

func NewCompositeEvaluator(evaluators ...Evaluator) *CompositeEvaluator {
	return &CompositeEvaluator{evaluators: evaluators}
}

func (c *CompositeEvaluator) Evaluate(ctx context.Context, in Input) (Verdict, error) {
	var combined Verdict
	for _, ev := range c.evaluators {
		verdict, err := ev.Evaluate(ctx, in)
		if err != nil {
			return Verdict{}, err
		}
		if verdict.Score > combined.Score {
			combined.Score = verdict.Score
		}
		combined.Flagged = combined.Flagged || verdict.Flagged
		combined.Flags = append(combined.Flags, verdict.Flags...)
	}
	return combined, nil
}
