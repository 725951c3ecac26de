package predict

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider names accepted by NewLLM.
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// LLMConfig configures one provider-backed predictor.
type LLMConfig struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint (openai-compatible servers).
	BaseURL string
	// OllamaHost is the ollama server URL ("http://127.0.0.1:11434" when
	// empty).
	OllamaHost string
	// PromptTemplate supports {{question}} and {{options}} placeholders.
	// Empty selects the built-in template.
	PromptTemplate string
	Temperature    float64
	MaxTokens      int
}

func (c *LLMConfig) withDefaults() LLMConfig {
	out := *c
	if out.Model == "" {
		switch out.Provider {
		case ProviderOpenAI:
			out.Model = "gpt-4o"
		case ProviderGemini:
			out.Model = "gemini-pro"
		case ProviderDeepSeek:
			out.Model = "deepseek-chat"
		}
	}
	if out.Temperature == 0 {
		out.Temperature = 0.3
	}
	if out.MaxTokens == 0 {
		out.MaxTokens = 50
	}
	return out
}

// LLM answers questions through a langchaingo chat model.
type LLM struct {
	provider string
	model    llms.Model
	cfg      LLMConfig
}

// NewLLM builds a predictor for the named provider. DeepSeek rides the
// openai client with a fixed base URL.
func NewLLM(ctx context.Context, cfg LLMConfig) (*LLM, error) {
	cfg = cfg.withDefaults()

	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: API key not configured", cfg.Provider)
		}
		opts := []openai.Option{openai.WithModel(cfg.Model), openai.WithToken(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case ProviderDeepSeek:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: API key not configured", cfg.Provider)
		}
		base := cfg.BaseURL
		if base == "" {
			base = deepseekBaseURL
		}
		model, err = openai.New(
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
			openai.WithBaseURL(base),
		)
	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: API key not configured", cfg.Provider)
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case ProviderOllama:
		host := cfg.OllamaHost
		if host == "" {
			host = "http://127.0.0.1:11434"
		}
		opts := []ollama.Option{ollama.WithServerURL(host)}
		if cfg.Model != "" {
			opts = append(opts, ollama.WithModel(cfg.Model))
		}
		model, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: creating client: %w", cfg.Provider, err)
	}
	return &LLM{provider: cfg.Provider, model: model, cfg: cfg}, nil
}

var dataURIPrefixRe = regexp.MustCompile(`^data:image/\w+;base64,`)

func (p *LLM) Predict(ctx context.Context, req Request) (Response, error) {
	parts := []llms.ContentPart{
		llms.TextPart(renderPrompt(p.cfg.PromptTemplate, req.Question, req.Options)),
	}
	if req.ImageData != "" {
		part, err := imagePart(p.provider, req.ImageData)
		if err != nil {
			return Response{}, fmt.Errorf("%s: %w", p.provider, err)
		}
		parts = append(parts, part)
	}

	completion, err := p.model.GenerateContent(ctx, []llms.MessageContent{
		{Role: llms.ChatMessageTypeHuman, Parts: parts},
	},
		llms.WithTemperature(p.cfg.Temperature),
		llms.WithMaxTokens(p.cfg.MaxTokens),
	)
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w", p.provider, err)
	}
	if len(completion.Choices) == 0 {
		return Response{}, fmt.Errorf("%s: empty completion", p.provider)
	}
	answer := strings.TrimSpace(completion.Choices[0].Content)
	if answer == "" {
		return Response{}, fmt.Errorf("%s: empty answer", p.provider)
	}
	return Response{Answer: answer, Provider: p.provider}, nil
}

// imagePart picks the attachment encoding the provider understands:
// openai-compatible APIs take a data URI, the rest take raw bytes.
func imagePart(provider, imageData string) (llms.ContentPart, error) {
	switch provider {
	case ProviderOpenAI, ProviderDeepSeek:
		if !dataURIPrefixRe.MatchString(imageData) {
			imageData = "data:image/png;base64," + imageData
		}
		return llms.ImageURLPart(imageData), nil
	default:
		raw, err := base64.StdEncoding.DecodeString(dataURIPrefixRe.ReplaceAllString(imageData, ""))
		if err != nil {
			return nil, fmt.Errorf("decoding image data: %w", err)
		}
		return llms.BinaryPart("image/png", raw), nil
	}
}
