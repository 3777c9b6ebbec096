package fraud

import (
	"fmt"
	"math"
	"time"
)

// Input holds the raw transaction fields the evaluators work from.
// Date is the server-assigned creation timestamp; UserID is only needed
// by the rule-based evaluator's history window.
type Input struct {
	UserID   string
	Amount   float64
	Category string
	Date     time.Time
}

type FeatureBuilder struct{}

func NewFeatureBuilder() *FeatureBuilder {
	return &FeatureBuilder{}
}

// Build assembles the feature vector in exactly the order of schema, the
// bundle's declared feature names. Unknown feature names are a
// configuration fault, not a caller fault.
func (b *FeatureBuilder) Build(in Input, schema []string) ([]float64, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	vector := make([]float64, len(schema))
	for i, name := range schema {
		value, err := b.feature(in, name)
		if err != nil {
			return nil, err
		}
		vector[i] = value
	}

	return vector, nil
}

// Supports reports whether every feature name in schema can be computed.
// Used at construction time so a bad artifact fails the process start,
// not the first request.
func (b *FeatureBuilder) Supports(schema []string) error {
	in := Input{Date: time.Unix(0, 0)}
	for _, name := range schema {
		if _, err := b.feature(in, name); err != nil {
			return err
		}
	}
	return nil
}

func (b *FeatureBuilder) feature(in Input, name string) (float64, error) {
	switch name {
	case "amount":
		return in.Amount, nil
	case "category_encoded":
		return float64(EncodeCategory(in.Category)), nil
	case "amount_log":
		return math.Log1p(in.Amount), nil
	case "hour_of_day":
		return float64(in.Date.Hour()), nil
	default:
		return 0, fmt.Errorf("%w: unknown feature %q", ErrSchemaMismatch, name)
	}
}

func validateInput(in Input) error {
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return fmt.Errorf("%w: amount must be finite", ErrValidation)
	}
	if in.Amount < 0 {
		return fmt.Errorf("%w: amount must be non-negative", ErrValidation)
	}
	return nil
}
