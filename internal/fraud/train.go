package fraud

import (
	"fmt"
	"math"
)

// Dataset is a labeled training set: one row of feature values per
// sample, label 1 for fraud.
type Dataset struct {
	Features []string
	Samples  [][]float64
	Labels   []int
}

// BootstrapDataset returns the labeled seed transactions the shipped
// artifact is trained on. Small on purpose; a production artifact would
// come from an offline batch job feeding the same format.
func BootstrapDataset() Dataset {
	amounts := []float64{50, 200, 5000, 20000, 15000, 120, 75, 30000, 80, 7000}
	categories := []float64{1, 2, 3, 3, 2, 1, 1, 3, 2, 3}
	labels := []int{0, 0, 0, 1, 1, 0, 0, 1, 0, 1}

	samples := make([][]float64, len(amounts))
	for i := range amounts {
		samples[i] = []float64{amounts[i], categories[i], math.Log1p(amounts[i])}
	}

	return Dataset{
		Features: []string{"amount", "category_encoded", "amount_log"},
		Samples:  samples,
		Labels:   labels,
	}
}

// TrainLogistic fits a standard scaler and a logistic-regression
// classifier by full-batch gradient descent. Deterministic: zero
// initialization, fixed epoch count, no shuffling.
func TrainLogistic(ds Dataset, epochs int, learningRate float64) (Artifact, error) {
	n := len(ds.Samples)
	dims := len(ds.Features)
	if n == 0 || dims == 0 {
		return Artifact{}, fmt.Errorf("empty dataset")
	}
	if len(ds.Labels) != n {
		return Artifact{}, fmt.Errorf("%d labels for %d samples", len(ds.Labels), n)
	}
	for i, sample := range ds.Samples {
		if len(sample) != dims {
			return Artifact{}, fmt.Errorf("sample %d has %d values, want %d", i, len(sample), dims)
		}
	}

	scaler := fitScaler(ds.Samples, dims)

	scaled := make([][]float64, n)
	for i, sample := range ds.Samples {
		row := make([]float64, dims)
		for j, v := range sample {
			row[j] = (v - scaler.Mean[j]) / scaler.Scale[j]
		}
		scaled[i] = row
	}

	weights := make([]float64, dims)
	var intercept float64

	for epoch := 0; epoch < epochs; epoch++ {
		grad := make([]float64, dims)
		var gradIntercept float64

		for i, row := range scaled {
			z := intercept
			for j, v := range row {
				z += weights[j] * v
			}
			residual := sigmoid(z) - float64(ds.Labels[i])
			for j, v := range row {
				grad[j] += residual * v
			}
			gradIntercept += residual
		}

		for j := range weights {
			weights[j] -= learningRate * grad[j] / float64(n)
		}
		intercept -= learningRate * gradIntercept / float64(n)
	}

	return Artifact{
		Version:  1,
		Features: append([]string(nil), ds.Features...),
		Scaler:   scaler,
		Classifier: Classifier{
			Type:         ClassifierLogisticRegression,
			Coefficients: weights,
			Intercept:    intercept,
		},
	}, nil
}

func fitScaler(samples [][]float64, dims int) Scaler {
	n := float64(len(samples))
	mean := make([]float64, dims)
	scale := make([]float64, dims)

	for _, sample := range samples {
		for j, v := range sample {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	for _, sample := range samples {
		for j, v := range sample {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			// Constant feature: leave it unscaled rather than divide by zero.
			scale[j] = 1
		}
	}

	return Scaler{Mean: mean, Scale: scale}
}
