package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ablejobs/matchcore/internal/ai"
	"github.com/ablejobs/matchcore/internal/ai/gemini"
	"github.com/ablejobs/matchcore/internal/ai/openrouter"
	"github.com/ablejobs/matchcore/internal/heuristic"
	"github.com/ablejobs/matchcore/internal/people"
	"github.com/ablejobs/matchcore/internal/secrets"
	"github.com/ablejobs/matchcore/internal/service"
	"github.com/ablejobs/matchcore/internal/store"
)

// newService opens the store and wires the scoring service. The caller closes the store.
func newService(ctx context.Context, config *Config, logger *zap.Logger) (*service.Service, store.Store, error) {
	if config == nil {
		return nil, nil, errors.New("config is required")
	}

	fallback, err := newHeuristic(config.Heuristic)
	if err != nil {
		return nil, nil, err
	}

	matcher, err := newPeopleMatcher(config.People)
	if err != nil {
		return nil, nil, err
	}

	evaluator, err := newEvaluator(ctx, config, fallback, logger)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(ctx, config.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	concurrency := 0
	if config.AI != nil {
		concurrency = config.AI.Concurrency
	}

	svc, err := service.New(service.Config{
		Store:       st,
		Evaluator:   evaluator,
		People:      matcher,
		Concurrency: concurrency,
		Logger:      logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	return svc, st, nil
}

func newHeuristic(cfg *HeuristicConfig) (*heuristic.Scorer, error) {
	if cfg == nil {
		return heuristic.Default(), nil
	}
	scorer, err := heuristic.New(cfg.Weights, cfg.Reasons)
	if err != nil {
		return nil, fmt.Errorf("heuristic config: %w", err)
	}
	return scorer, nil
}

func newPeopleMatcher(cfg *PeopleConfig) (*people.Matcher, error) {
	w := people.DefaultWeights()
	if cfg != nil {
		w = cfg.Weights
	}
	m, err := people.NewMatcher(w)
	if err != nil {
		return nil, fmt.Errorf("people config: %w", err)
	}
	return m, nil
}

func newEvaluator(ctx context.Context, config *Config, fallback *heuristic.Scorer, logger *zap.Logger) (*ai.Evaluator, error) {
	opts := ai.Options{}
	if config.AI != nil {
		opts.MaxLogLength = config.AI.MaxLogLength
		if raw := strings.TrimSpace(config.AI.CallTimeout); raw != "" {
			timeout, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing ai.call-timeout: %w", err)
			}
			opts.CallTimeout = timeout
		}
	}

	generator, err := newTextGenerator(ctx, config, logger)
	if err != nil {
		return nil, err
	}
	if generator == nil {
		opts.FallbackOnly = true
	}

	return ai.NewEvaluator(generator, fallback, logger, opts), nil
}

// newTextGenerator returns nil when scoring should run on the heuristic alone: AI disabled,
// development environment, or no credential configured.
func newTextGenerator(ctx context.Context, config *Config, logger *zap.Logger) (ai.TextGenerator, error) {
	cfg := config.AI
	if cfg == nil || !cfg.Enabled {
		logger.Info("ai scoring disabled, using heuristic scores")
		return nil, nil
	}
	if strings.EqualFold(strings.TrimSpace(config.Environment), envDevelopment) {
		logger.Info("development environment, using heuristic scores")
		return nil, nil
	}

	switch provider := strings.TrimSpace(strings.ToLower(cfg.Provider)); provider {
	case "", gemini.Provider:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}
		apiKey, err := loadKey(secrets.Source{Name: "gemini api key", Value: gc.APIKey, File: gc.APIKeyFile}, logger)
		if apiKey == "" || err != nil {
			return nil, err
		}
		generator, err := gemini.NewGenerator(ctx, apiKey, gc.Model, gc.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		return generator, nil
	case openrouter.Provider:
		oc := cfg.OpenRouter
		if oc == nil {
			oc = &OpenRouterConfig{}
		}
		apiKey, err := loadKey(secrets.Source{Name: "openrouter api key", Value: oc.APIKey, File: oc.APIKeyFile}, logger)
		if apiKey == "" || err != nil {
			return nil, err
		}
		client, err := openrouter.New(apiKey, oc.Model, oc.BaseURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// loadKey returns an empty key without error when the credential is simply not configured.
func loadKey(src secrets.Source, logger *zap.Logger) (string, error) {
	key, err := secrets.Load(src)
	if errors.Is(err, secrets.ErrNotConfigured) {
		logger.Warn("ai credential missing, using heuristic scores",
			zap.String("credential", src.Name),
			zap.String("hint", "set the api-key-file key in the ai section or the provider API key environment variable"),
		)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return key, nil
}
