package fraud

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedEngine(t *testing.T) *Engine {
	t.Helper()
	artifact, err := TrainLogistic(BootstrapDataset(), 5000, 0.1)
	require.NoError(t, err)
	bundle, err := NewBundle(artifact)
	require.NoError(t, err)
	engine, err := NewEngine(bundle, DefaultThreshold)
	require.NoError(t, err)
	return engine
}

// Fixed-intercept bundle with zero coefficients: every input scores the
// same known probability, which pins down the decision policy.
func constantEngine(t *testing.T, score float64) *Engine {
	t.Helper()
	bundle, err := NewBundle(Artifact{
		Version:  1,
		Features: []string{"amount", "category_encoded"},
		Scaler:   Scaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}},
		Classifier: Classifier{
			Type:         ClassifierLogisticRegression,
			Coefficients: []float64{0, 0},
			Intercept:    math.Log(score / (1 - score)),
		},
	})
	require.NoError(t, err)
	engine, err := NewEngine(bundle, DefaultThreshold)
	require.NoError(t, err)
	return engine
}

func TestEngine_Evaluate_SmallGroceryPurchaseNotFlagged(t *testing.T) {
	engine := trainedEngine(t)

	verdict, err := engine.Evaluate(context.Background(), Input{Amount: 50, Category: "Groceries"})
	require.NoError(t, err)

	assert.False(t, verdict.Flagged)
	assert.Less(t, verdict.Score, 0.5)
}

func TestEngine_Evaluate_LargeUnknownCategoryFlagged(t *testing.T) {
	engine := trainedEngine(t)

	verdict, err := engine.Evaluate(context.Background(), Input{Amount: 30000, Category: "Luxury"})
	require.NoError(t, err)

	assert.True(t, verdict.Flagged)
	assert.Greater(t, verdict.Score, 0.71)
}

func TestEngine_Evaluate_PolicyInvariant(t *testing.T) {
	engine := trainedEngine(t)

	for _, amount := range []float64{0, 10, 50, 200, 1000, 5000, 7000, 15000, 30000, 100000} {
		for _, category := range []string{"Groceries", "Rent", "Utilities", "Luxury", ""} {
			verdict, err := engine.Evaluate(context.Background(), Input{Amount: amount, Category: category})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, verdict.Score, 0.0)
			assert.LessOrEqual(t, verdict.Score, 1.0)
			assert.Equal(t, verdict.Score > DefaultThreshold, verdict.Flagged,
				"amount=%v category=%q score=%v", amount, category, verdict.Score)
		}
	}
}

func TestEngine_Evaluate_ThresholdIsStrict(t *testing.T) {
	low := constantEngine(t, 0.02)
	verdict, err := low.Evaluate(context.Background(), Input{Amount: 50, Category: "Groceries"})
	require.NoError(t, err)
	assert.InDelta(t, 0.02, verdict.Score, 1e-9)
	assert.False(t, verdict.Flagged)

	high := constantEngine(t, 0.9)
	verdict, err = high.Evaluate(context.Background(), Input{Amount: 50, Category: "Groceries"})
	require.NoError(t, err)
	assert.True(t, verdict.Flagged)
}

func TestEngine_Evaluate_Idempotent(t *testing.T) {
	engine := trainedEngine(t)
	in := Input{Amount: 1234.56, Category: "Dining"}

	first, err := engine.Evaluate(context.Background(), in)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := engine.Evaluate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEngine_Evaluate_PropagatesValidationError(t *testing.T) {
	engine := trainedEngine(t)

	_, err := engine.Evaluate(context.Background(), Input{Amount: -5, Category: "Rent"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrSchemaMismatch)
}

func TestNewEngine_RejectsUnbuildableSchema(t *testing.T) {
	bundle, err := NewBundle(Artifact{
		Version:  1,
		Features: []string{"amount", "merchant_risk"},
		Scaler:   Scaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}},
		Classifier: Classifier{
			Type:         ClassifierLogisticRegression,
			Coefficients: []float64{0, 0},
		},
	})
	require.NoError(t, err)

	_, err = NewEngine(bundle, DefaultThreshold)
	assert.ErrorIs(t, err, ErrModelLoad)
}

func TestNewEngine_RejectsBadThreshold(t *testing.T) {
	artifact, err := TrainLogistic(BootstrapDataset(), 100, 0.1)
	require.NoError(t, err)
	bundle, err := NewBundle(artifact)
	require.NoError(t, err)

	for _, threshold := range []float64{0, 1, -0.1, 1.5} {
		_, err := NewEngine(bundle, threshold)
		assert.ErrorIs(t, err, ErrModelLoad, "threshold %v", threshold)
	}
}

type stubEvaluator struct {
	verdict Verdict
	err     error
}

func (s stubEvaluator) Evaluate(context.Context, Input) (Verdict, error) {
	return s.verdict, s.err
}

func TestCompositeEvaluator_FlagsOnEither(t *testing.T) {
	clean := stubEvaluator{verdict: Verdict{Score: 0.1}}
	dirty := stubEvaluator{verdict: Verdict{Score: 1, Flagged: true, Flags: []string{"large_amount"}}}

	composite := NewCompositeEvaluator(clean, dirty)
	verdict, err := composite.Evaluate(context.Background(), Input{Amount: 10})
	require.NoError(t, err)

	assert.True(t, verdict.Flagged)
	assert.Equal(t, 1.0, verdict.Score)
	assert.Equal(t, []string{"large_amount"}, verdict.Flags)
}

func TestCompositeEvaluator_CleanWhenAllClean(t *testing.T) {
	composite := NewCompositeEvaluator(
		stubEvaluator{verdict: Verdict{Score: 0.2}},
		stubEvaluator{verdict: Verdict{Score: 0.4}},
	)

	verdict, err := composite.Evaluate(context.Background(), Input{Amount: 10})
	require.NoError(t, err)

	assert.False(t, verdict.Flagged)
	assert.Equal(t, 0.4, verdict.Score)
}
