package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xhad/versewise/pkg/llm"
)

func geminiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGeminiGenerate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Grace is unmerited favor."}]}}]}`)
	}))
	defer server.Close()

	g := llm.NewGeminiGenerator(llm.ChatConfig{APIKey: "test-key", BaseURL: server.URL})
	text, err := g.Generate(context.Background(), "What is grace?")
	require.NoError(t, err)
	assert.Equal(t, "Grace is unmerited favor.", text)

	require.Contains(t, captured, "generationConfig")
	genConfig := captured["generationConfig"].(map[string]any)
	assert.EqualValues(t, 40, genConfig["topK"])
	assert.EqualValues(t, 1024, genConfig["maxOutputTokens"])
	assert.Len(t, captured["safetySettings"], 4)
}

func TestGeminiGenerateNoCandidates(t *testing.T) {
	server := geminiServer(t, http.StatusOK, `{"candidates":[]}`)

	g := llm.NewGeminiGenerator(llm.ChatConfig{APIKey: "test-key", BaseURL: server.URL})
	_, err := g.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, llm.IsProviderError(err))
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse))
}

func TestGeminiMissingKey(t *testing.T) {
	g := llm.NewGeminiGenerator(llm.ChatConfig{})
	_, err := g.Generate(context.Background(), "hello")

	var pe *llm.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, llm.BackendGemini, pe.Backend)
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestInvokeFallsBackOnServerError(t *testing.T) {
	server := geminiServer(t, http.StatusInternalServerError, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)

	core, logs := observer.New(zapcore.ErrorLevel)
	invoker, err := llm.NewWithConfig(llm.ChatConfig{APIKey: "test-key", BaseURL: server.URL},
		llm.WithLogger(zap.New(core)))
	require.NoError(t, err)

	reply := invoker.Invoke(context.Background(), "What is grace?")
	assert.Equal(t, llm.FallbackResponse, reply)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, llm.BackendGemini, logs.All()[0].ContextMap()["backend"])
}

func TestInvokeMissingKeyFallsBack(t *testing.T) {
	invoker, err := llm.NewWithConfig(llm.ChatConfig{Backend: "gemini"})
	require.NoError(t, err)
	assert.Equal(t, llm.FallbackResponse, invoker.Invoke(context.Background(), "hello"))
}

func TestInvokeOllamaFallsBack(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
	}{
		{"empty body", http.StatusInternalServerError, "", ""},
		{"json error", http.StatusInternalServerError, "application/json", `{"error":"model not found"}`},
		{"html gateway error", http.StatusBadGateway, "text/html", "<html><body>502 Bad Gateway</body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			invoker, err := llm.NewWithConfig(llm.ChatConfig{Backend: "ollama", BaseURL: server.URL})
			require.NoError(t, err)
			assert.Equal(t, llm.BackendOllama, invoker.Backend())
			assert.Equal(t, llm.FallbackResponse, invoker.Invoke(context.Background(), "hello"))
		})
	}
}

func TestOllamaGenerateEmptyErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	text, err := llm.NewOllamaGenerator(llm.ChatConfig{BaseURL: server.URL}).Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Empty(t, text)
	assert.True(t, llm.IsProviderError(err))
}

func TestNewWithConfigUnknownBackend(t *testing.T) {
	_, err := llm.NewWithConfig(llm.ChatConfig{Backend: "gpt"})
	assert.Error(t, err)
}

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Backend() string { return "stub" }

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.text, s.err
}

func TestInvokePassesThrough(t *testing.T) {
	invoker := llm.NewInvoker(stubGenerator{text: "Amen."})
	assert.Equal(t, "Amen.", invoker.Invoke(context.Background(), "prompt"))

	invoker = llm.NewInvoker(stubGenerator{err: &llm.ProviderError{Backend: "stub", Op: "generate", Err: io.EOF}})
	assert.Equal(t, llm.FallbackResponse, invoker.Invoke(context.Background(), "prompt"))
}

type panicGenerator struct{}

func (panicGenerator) Backend() string { return "panicky" }

func (panicGenerator) Generate(context.Context, string) (string, error) {
	panic("nil response message")
}

func TestInvokeRecoversFromGeneratorPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	invoker := llm.NewInvoker(panicGenerator{}, llm.WithLogger(zap.New(core)))

	assert.NotPanics(t, func() {
		assert.Equal(t, llm.FallbackResponse, invoker.Invoke(context.Background(), "prompt"))
	})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panicky", logs.All()[0].ContextMap()["backend"])
}
