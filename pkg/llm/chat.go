package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xhad/versewise/internal/metrics"
)

// FallbackResponse is returned verbatim whenever the model cannot answer.
const FallbackResponse = "I apologize, but I'm having trouble processing your request right now. Please try again in a moment."

const (
	BackendGemini = "gemini"
	BackendOllama = "ollama"

	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOllamaModel = "mistral"
)

// Fixed generation settings shared by every backend.
const (
	Temperature     = 0.7
	TopK            = 40
	TopP            = 0.95
	MaxOutputTokens = 1024
)

// ChatConfig selects and configures the generative backend.
type ChatConfig struct {
	Backend string
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Generator produces a completion for a single prompt. Implementations
// report every failure as a *ProviderError.
type Generator interface {
	Backend() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Invoker turns a prompt into reply text and never fails: backend errors are
// logged and replaced with FallbackResponse.
type Invoker struct {
	generator Generator
	logger    *zap.Logger
}

type Option func(*Invoker)

func WithLogger(logger *zap.Logger) Option {
	return func(i *Invoker) {
		i.logger = logger
	}
}

func NewInvoker(generator Generator, opts ...Option) *Invoker {
	i := &Invoker{generator: generator, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// NewWithConfig builds an Invoker on the backend named in config.
func NewWithConfig(config ChatConfig, opts ...Option) (*Invoker, error) {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	var generator Generator
	switch strings.ToLower(config.Backend) {
	case "", BackendGemini:
		generator = NewGeminiGenerator(config)
	case BackendOllama:
		generator = NewOllamaGenerator(config)
	default:
		return nil, fmt.Errorf("unknown llm backend %q", config.Backend)
	}
	return NewInvoker(generator, opts...), nil
}

// Backend names the generator behind this invoker.
func (i *Invoker) Backend() string {
	return i.generator.Backend()
}

// Invoke sends prompt to the backend. On any failure the fallback apology is
// returned instead of an error.
func (i *Invoker) Invoke(ctx context.Context, prompt string) (reply string) {
	backend := i.generator.Backend()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.LLMRequests.WithLabelValues(backend, metrics.OutcomeError).Inc()
			i.logger.Error("Model invocation panicked",
				zap.String("backend", backend),
				zap.Duration("elapsed", time.Since(start)),
				zap.Any("panic", r))
			reply = FallbackResponse
		}
	}()

	text, err := i.generator.Generate(ctx, prompt)
	if err != nil {
		metrics.LLMRequests.WithLabelValues(backend, metrics.OutcomeError).Inc()
		i.logger.Error("Model invocation failed",
			zap.String("backend", backend),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return FallbackResponse
	}

	metrics.LLMRequests.WithLabelValues(backend, metrics.OutcomeOK).Inc()
	i.logger.Debug("Model invocation succeeded",
		zap.String("backend", backend),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)))
	return text
}
