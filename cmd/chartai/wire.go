package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/credential"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/gemini"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/storage"
)

// newManager wires the credential manager to the on-disk secret store and the
// Gemini client constructor. The caller owns the returned store's lifetime.
func newManager() (*credential.Manager, *storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(viper.GetString("storage.path"))
	if err != nil {
		return nil, nil, err
	}

	cfg := gemini.Config{
		Model:           viper.GetString("gemini.model"),
		Temperature:     float32(viper.GetFloat64("gemini.temperature")),
		MaxOutputTokens: viper.GetInt32("gemini.max_output_tokens"),
	}

	connect := func(ctx context.Context, secret string) (credential.RemoteModel, error) {
		return gemini.NewClient(ctx, secret, cfg)
	}

	return credential.NewManager(store, connect, slog.Default()), store, nil
}

func analyzeTimeout() time.Duration {
	return viper.GetDuration("analyze.timeout")
}
