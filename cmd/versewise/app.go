package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xhad/versewise/pkg/assistant"
	cfgPkg "github.com/xhad/versewise/pkg/config"
	"github.com/xhad/versewise/pkg/lexicon"
	"github.com/xhad/versewise/pkg/llm"
	"github.com/xhad/versewise/pkg/scripture"
	"github.com/xhad/versewise/pkg/store"
)

// app holds every component built from one configuration.
type app struct {
	resolver    *scripture.Resolver
	terms       *lexicon.TermMatcher
	concordance *lexicon.Concordance
	invoker     *llm.Invoker
	store       *store.ChatStore
	assistant   *assistant.Assistant
}

// newApp wires the pipeline. The chat store is opened only when withStore is
// set and a database URL is configured.
func newApp(ctx context.Context, config *cfgPkg.Config, logger *zap.Logger, withStore bool) (*app, error) {
	a := &app{}

	a.resolver = scripture.NewWithConfig(scripture.ResolverConfig{
		BibleAPIURL: config.Providers.BibleAPIURL,
		BollsURL:    config.Providers.BollsURL,
		Translation: config.Providers.Translation,
		Timeout:     config.Providers.Timeout,
		RateLimit:   config.Providers.RateLimit,
		SearchLimit: config.Providers.SearchLimit,
	}, scripture.WithLogger(logger.Named("scripture")))

	a.terms = lexicon.NewTermMatcher(lexicon.TermMatcherConfig{
		URL:          config.Lexicon.TermsURL,
		APIKey:       config.Lexicon.APIKey,
		APIKeyHeader: config.Lexicon.APIKeyHeader,
		Timeout:      config.Lexicon.Timeout,
		RateLimit:    config.Lexicon.RateLimit,
	}, lexicon.WithLogger(logger.Named("lexicon")))

	a.concordance = lexicon.NewConcordance(lexicon.ConcordanceConfig{
		BaseURL:   config.Lexicon.ConcordanceURL,
		Timeout:   config.Lexicon.Timeout,
		RateLimit: config.Lexicon.RateLimit,
	}, lexicon.WithLogger(logger.Named("lexicon")))

	invoker, err := llm.NewWithConfig(llm.ChatConfig{
		Backend: config.LLM.Backend,
		Model:   config.LLM.Model,
		APIKey:  config.LLM.APIKey,
		BaseURL: config.LLM.BaseURL,
		Timeout: config.LLM.Timeout,
	}, llm.WithLogger(logger.Named("llm")))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat engine: %w", err)
	}
	a.invoker = invoker

	opts := []assistant.Option{assistant.WithLogger(logger.Named("assistant"))}
	if withStore && config.Database.URL != "" {
		a.store, err = store.NewWithConfig(ctx, store.StoreConfig{
			ConnString: config.Database.URL,
			TableName:  config.Database.TableName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize chat store: %w", err)
		}
		opts = append(opts, assistant.WithStore(a.store))
	}

	a.assistant = assistant.New(a.resolver, a.terms, a.concordance, a.invoker, opts...)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
