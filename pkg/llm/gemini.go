package llm

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini generateContent endpoint.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	err    error
}

// NewGeminiGenerator never fails: a missing key or client construction error
// is kept and reported by every Generate call, so the invoker can fall back.
func NewGeminiGenerator(config ChatConfig) *GeminiGenerator {
	g := &GeminiGenerator{model: config.Model}
	if g.model == "" {
		g.model = DefaultGeminiModel
	}

	if config.APIKey == "" {
		g.err = ErrMissingAPIKey
		return g
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: config.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL: config.BaseURL,
		},
	})
	if err != nil {
		g.err = err
		return g
	}
	g.client = client
	return g
}

func (g *GeminiGenerator) Backend() string { return BackendGemini }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", &ProviderError{Backend: BackendGemini, Op: "configure", Err: g.err}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), generationConfig())
	if err != nil {
		return "", &ProviderError{Backend: BackendGemini, Op: "generate", Err: err}
	}

	text := candidateText(resp)
	if text == "" {
		return "", &ProviderError{Backend: BackendGemini, Op: "decode", Err: ErrEmptyResponse}
	}
	return text, nil
}

// generationConfig is the fixed sampling and safety configuration.
func generationConfig() *genai.GenerateContentConfig {
	safety := make([]*genai.SafetySetting, 0, 4)
	for _, category := range []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	} {
		safety = append(safety, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](Temperature),
		TopK:            genai.Ptr[float32](TopK),
		TopP:            genai.Ptr[float32](TopP),
		MaxOutputTokens: MaxOutputTokens,
		SafetySettings:  safety,
	}
}

// candidateText returns the text of the first candidate that has any.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range c.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text
		}
	}
	return ""
}
