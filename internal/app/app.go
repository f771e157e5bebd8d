// Package app wires the configuration into the services shared by the web
// server and the rank command.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/llm"
	"alfredoptarigan/resume-ranker/internal/prompts"
	"alfredoptarigan/resume-ranker/internal/services"
)

type Components struct {
	Prompts   *prompts.Store
	LLM       llm.Client
	Evaluator services.EvaluatorService
}

// Build loads the settings and prompt files and constructs the LLM client
// and the evaluator. Every error here is a configuration error.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	if cfg.Settings == nil {
		settings, err := config.LoadSettings(cfg.Paths.Settings)
		if err != nil {
			return nil, err
		}
		cfg.Settings = settings
	}

	store, err := prompts.Load(cfg.Paths.Prompts)
	if err != nil {
		return nil, err
	}
	logger.Info("prompts loaded",
		zap.String("path", store.Source()),
		zap.Strings("templates", store.Names()),
	)

	provider, err := llm.ParseProvider(cfg.Settings.AI.DefaultProvider)
	if err != nil {
		return nil, err
	}

	client, err := llm.New(ctx, llm.Config{
		Provider:      provider,
		Model:         cfg.Settings.AI.Model(),
		APIKey:        cfg.APIKey(string(provider)),
		Temperature:   cfg.Settings.AI.Temperature,
		Timeout:       cfg.LLM.Timeout,
		MaxAttempts:   cfg.LLM.MaxAttempts,
		RetryInterval: cfg.LLM.RetryInterval,
		BaseURL:       cfg.LLM.BaseURL,
	}, store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", provider, err)
	}
	logger.Info("llm client initialized",
		zap.String("provider", string(client.Provider())),
		zap.String("model", client.Model()),
	)

	storage := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storage.EnsureUploadDir(); err != nil {
		return nil, err
	}

	extractor := services.NewDocumentExtractor(storage, cfg.Worker.ExtractionTimeout, logger)
	worker := services.NewWorker(cfg.Worker.Concurrency, logger)

	return &Components{
		Prompts:   store,
		LLM:       client,
		Evaluator: services.NewEvaluatorService(client, extractor, worker, logger),
	}, nil
}
