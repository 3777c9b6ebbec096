package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"personal_finance/internal/fraud"
)

func main() {
	output := flag.String("output", "fraud_model.json", "where to write the model artifact")
	epochs := flag.Int("epochs", 5000, "gradient descent epochs")
	learningRate := flag.Float64("learning-rate", 0.1, "gradient descent learning rate")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	artifact, err := fraud.TrainLogistic(fraud.BootstrapDataset(), *epochs, *learningRate)
	if err != nil {
		logger.Error("Training failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Round-trip through the loader so a bad artifact never ships.
	if _, err := fraud.NewBundle(artifact); err != nil {
		logger.Error("Trained artifact failed validation", slog.String("error", err.Error()))
		os.Exit(1)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		logger.Error("Failed to encode artifact", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		logger.Error("Failed to write artifact", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Fraud detection model trained and saved",
		slog.String("output", *output),
		slog.Any("features", artifact.Features))
}
