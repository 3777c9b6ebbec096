package fraud

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

const ClassifierLogisticRegression = "logistic_regression"

// Artifact is the serialized form of a trained model bundle: the fitted
// scaler, the classifier parameters and the ordered feature schema they
// were trained against.
type Artifact struct {
	Version    int        `json:"version"`
	Features   []string   `json:"features"`
	Scaler     Scaler     `json:"scaler"`
	Classifier Classifier `json:"classifier"`
}

type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type Classifier struct {
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Bundle is an immutable trained classifier plus its companion scaler.
// Loaded once at process start and shared read-only across scoring calls;
// no locking is needed after construction.
type Bundle struct {
	features     []string
	mean         []float64
	scale        []float64
	coefficients []float64
	intercept    float64
}

// LoadBundle reads and validates a model artifact. Any failure here is a
// fatal configuration error: the caller must refuse to serve traffic.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrModelLoad, path, err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrModelLoad, path, err)
	}

	return NewBundle(artifact)
}

func NewBundle(artifact Artifact) (*Bundle, error) {
	n := len(artifact.Features)
	if n == 0 {
		return nil, fmt.Errorf("%w: artifact declares no features", ErrModelLoad)
	}
	if artifact.Classifier.Type != ClassifierLogisticRegression {
		return nil, fmt.Errorf("%w: unsupported classifier type %q", ErrModelLoad, artifact.Classifier.Type)
	}
	if len(artifact.Scaler.Mean) != n || len(artifact.Scaler.Scale) != n {
		return nil, fmt.Errorf("%w: scaler shape %d/%d does not match %d features",
			ErrModelLoad, len(artifact.Scaler.Mean), len(artifact.Scaler.Scale), n)
	}
	if len(artifact.Classifier.Coefficients) != n {
		return nil, fmt.Errorf("%w: %d coefficients for %d features",
			ErrModelLoad, len(artifact.Classifier.Coefficients), n)
	}
	for i, s := range artifact.Scaler.Scale {
		if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: invalid scale for feature %q", ErrModelLoad, artifact.Features[i])
		}
	}

	features := make([]string, n)
	copy(features, artifact.Features)

	return &Bundle{
		features:     features,
		mean:         append([]float64(nil), artifact.Scaler.Mean...),
		scale:        append([]float64(nil), artifact.Scaler.Scale...),
		coefficients: append([]float64(nil), artifact.Classifier.Coefficients...),
		intercept:    artifact.Classifier.Intercept,
	}, nil
}

// Features returns the ordered feature schema the bundle expects.
func (b *Bundle) Features() []string {
	return b.features
}

// ScoreProbability applies the fitted scaler to vector and returns the
// classifier's probability estimate for the fraud class, always in [0,1].
func (b *Bundle) ScoreProbability(vector []float64) (float64, error) {
	if len(vector) != len(b.features) {
		return 0, fmt.Errorf("%w: got %d features, bundle expects %d",
			ErrSchemaMismatch, len(vector), len(b.features))
	}

	z := b.intercept
	for i, v := range vector {
		z += b.coefficients[i] * (v - b.mean[i]) / b.scale[i]
	}

	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
