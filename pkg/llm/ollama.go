package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaGenerator runs the prompt against a local Ollama server.
type OllamaGenerator struct {
	llm llms.Model
	err error
}

func NewOllamaGenerator(config ChatConfig) *OllamaGenerator {
	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return &OllamaGenerator{err: fmt.Errorf("failed to initialize LLM: %w", err)}
	}
	return &OllamaGenerator{llm: llm}
}

func (g *OllamaGenerator) Backend() string { return BackendOllama }

// Generate recovers from client panics; langchaingo dereferences a nil
// message when the server answers non-2xx with an empty body.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (completion string, err error) {
	defer func() {
		if r := recover(); r != nil {
			completion = ""
			err = &ProviderError{Backend: BackendOllama, Op: "generate", Err: fmt.Errorf("ollama client panic: %v", r)}
		}
	}()

	if g.err != nil {
		return "", &ProviderError{Backend: BackendOllama, Op: "configure", Err: g.err}
	}

	completion, err = llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(Temperature),
		llms.WithTopK(TopK),
		llms.WithTopP(TopP),
		llms.WithMaxTokens(MaxOutputTokens),
	)
	if err != nil {
		return "", &ProviderError{Backend: BackendOllama, Op: "generate", Err: err}
	}

	completion = strings.TrimSpace(completion)
	if completion == "" {
		return "", &ProviderError{Backend: BackendOllama, Op: "decode", Err: ErrEmptyResponse}
	}
	return completion, nil
}
