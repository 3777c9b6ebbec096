package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainLogistic_ProducesLoadableArtifact(t *testing.T) {
	artifact, err := TrainLogistic(BootstrapDataset(), 5000, 0.1)
	require.NoError(t, err)

	assert.Equal(t, 1, artifact.Version)
	assert.Equal(t, []string{"amount", "category_encoded", "amount_log"}, artifact.Features)
	assert.Equal(t, ClassifierLogisticRegression, artifact.Classifier.Type)

	_, err = NewBundle(artifact)
	require.NoError(t, err)
}

func TestTrainLogistic_SeparatesTrainingData(t *testing.T) {
	artifact, err := TrainLogistic(BootstrapDataset(), 5000, 0.1)
	require.NoError(t, err)
	bundle, err := NewBundle(artifact)
	require.NoError(t, err)

	ds := BootstrapDataset()
	for i, sample := range ds.Samples {
		score, err := bundle.ScoreProbability(sample)
		require.NoError(t, err)
		if ds.Labels[i] == 1 {
			assert.Greater(t, score, 0.5, "sample %d (amount %v)", i, sample[0])
		} else {
			assert.Less(t, score, 0.5, "sample %d (amount %v)", i, sample[0])
		}
	}
}

func TestTrainLogistic_Deterministic(t *testing.T) {
	first, err := TrainLogistic(BootstrapDataset(), 1000, 0.1)
	require.NoError(t, err)
	second, err := TrainLogistic(BootstrapDataset(), 1000, 0.1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTrainLogistic_RejectsMalformedDatasets(t *testing.T) {
	empty := Dataset{Features: []string{"amount"}}
	_, err := TrainLogistic(empty, 10, 0.1)
	assert.Error(t, err)

	mismatched := Dataset{
		Features: []string{"amount"},
		Samples:  [][]float64{{1}, {2}},
		Labels:   []int{0},
	}
	_, err = TrainLogistic(mismatched, 10, 0.1)
	assert.Error(t, err)

	ragged := Dataset{
		Features: []string{"amount", "category_encoded"},
		Samples:  [][]float64{{1, 2}, {3}},
		Labels:   []int{0, 1},
	}
	_, err = TrainLogistic(ragged, 10, 0.1)
	assert.Error(t, err)
}

func TestFitScaler_ConstantFeature(t *testing.T) {
	scaler := fitScaler([][]float64{{5, 1}, {7, 1}, {9, 1}}, 2)

	assert.InDelta(t, 7, scaler.Mean[0], 1e-12)
	assert.InDelta(t, 1, scaler.Mean[1], 1e-12)
	assert.Equal(t, 1.0, scaler.Scale[1], "constant feature must not divide by zero")
}
