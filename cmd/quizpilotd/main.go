package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizpilot/quizpilot/internal/agent"
	api "github.com/quizpilot/quizpilot/internal/api/http"
	"github.com/quizpilot/quizpilot/internal/auth"
	"github.com/quizpilot/quizpilot/internal/browser"
	"github.com/quizpilot/quizpilot/internal/config"
	"github.com/quizpilot/quizpilot/internal/history"
	"github.com/quizpilot/quizpilot/internal/logger"
	"github.com/quizpilot/quizpilot/internal/ocr"
	"github.com/quizpilot/quizpilot/internal/predict"
	"github.com/quizpilot/quizpilot/internal/scan"
)

func main() {
	cfg := config.FromEnv()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	if cfg.TargetURL == "" {
		return errors.New("TARGET_URL is required")
	}

	// --- History store ---
	var store history.Store
	if cfg.SaveHistory {
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		dbh, err := history.Open(openCtx, history.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			return fmt.Errorf("history db: %w", err)
		}
		defer dbh.Close()
		store = history.NewSQLStore(dbh, cfg.MaxHistoryItems)
	}

	// --- Predictor ---
	pred, err := buildPredictor(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("predictor: %w", err)
	}

	// --- Browser session ---
	page, err := browser.NewChrome(ctx, browser.Config{
		URL:         cfg.TargetURL,
		Headless:    cfg.Headless,
		ExecPath:    cfg.ExecPath,
		UserDataDir: cfg.UserDataDir,
	}, log.With().Str("component", "browser").Logger())
	if err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	defer page.Close()

	// --- Agent ---
	opts := []agent.Option{
		agent.WithLogger(log.With().Str("component", "agent").Logger()),
	}
	if store != nil {
		opts = append(opts, agent.WithHistory(store))
	}
	if cfg.OCREnabled {
		opts = append(opts, agent.WithOCR(ocr.NewTesseract()))
	}
	ag := agent.New(page, pred, agent.Config{
		AutoAnswer:      cfg.AutoAnswer,
		SaveHistory:     cfg.SaveHistory,
		AnswerDelay:     cfg.AnswerDelay,
		MaxAnswerDelay:  cfg.MaxAnswerDelay,
		ProcessInterval: cfg.ScanInterval,
		OCREnabled:      cfg.OCREnabled,
		OCRLanguage:     cfg.OCRLanguage,
		Scan: scan.Options{
			DOMDetection:    cfg.DOMDetection,
			ShadowDOM:       cfg.ShadowDOM,
			ImageDetection:  cfg.ImageDetection,
			MathDetection:   cfg.MathDetection,
			CustomSelectors: cfg.CustomSelectors,
		},
	}, opts...)

	// --- Control API ---
	authSvc := auth.NewService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)
	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(authSvc, ag, store, cfg.CORSOrigins,
			log.With().Str("component", "api").Logger()),
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("control api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		if err := ag.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("agent: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("component failed")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutCtx)
	return nil
}

// buildPredictor maps the provider setting onto one predictor, or onto
// an auto chain trying every configured provider in order.
func buildPredictor(ctx context.Context, cfg config.Config, log zerolog.Logger) (predict.Predictor, error) {
	plog := log.With().Str("component", "predict").Logger()

	single := func(provider string) (predict.Predictor, error) {
		switch provider {
		case "local":
			if cfg.LocalBackend == "" {
				return nil, errors.New("LOCAL_BACKEND_URL not set")
			}
			return predict.NewLocal(cfg.LocalBackend), nil
		case predict.ProviderOpenAI:
			if cfg.OpenAIKey == "" {
				return nil, errors.New("OPENAI_API_KEY not set")
			}
			return predict.NewLLM(ctx, predict.LLMConfig{
				Provider: provider, Model: cfg.OpenAIModel, APIKey: cfg.OpenAIKey,
				BaseURL: cfg.OpenAIBaseURL, PromptTemplate: cfg.PromptTemplate,
				Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens,
			})
		case predict.ProviderGemini:
			if cfg.GeminiKey == "" {
				return nil, errors.New("GEMINI_API_KEY not set")
			}
			return predict.NewLLM(ctx, predict.LLMConfig{
				Provider: provider, Model: cfg.GeminiModel, APIKey: cfg.GeminiKey,
				PromptTemplate: cfg.PromptTemplate,
				Temperature:    cfg.Temperature, MaxTokens: cfg.MaxTokens,
			})
		case predict.ProviderDeepSeek:
			if cfg.DeepSeekKey == "" {
				return nil, errors.New("DEEPSEEK_API_KEY not set")
			}
			return predict.NewLLM(ctx, predict.LLMConfig{
				Provider: provider, Model: cfg.DeepSeekModel, APIKey: cfg.DeepSeekKey,
				PromptTemplate: cfg.PromptTemplate,
				Temperature:    cfg.Temperature, MaxTokens: cfg.MaxTokens,
			})
		case predict.ProviderOllama:
			if cfg.OllamaHost == "" {
				return nil, errors.New("OLLAMA_HOST not set")
			}
			return predict.NewLLM(ctx, predict.LLMConfig{
				Provider: provider, Model: cfg.OllamaModel, OllamaHost: cfg.OllamaHost,
				PromptTemplate: cfg.PromptTemplate,
				Temperature:    cfg.Temperature, MaxTokens: cfg.MaxTokens,
			})
		default:
			return nil, fmt.Errorf("unknown provider %q", provider)
		}
	}

	if cfg.Provider != "auto" {
		return single(cfg.Provider)
	}

	var chain []predict.Predictor
	for _, p := range []string{
		predict.ProviderOpenAI, predict.ProviderGemini,
		predict.ProviderDeepSeek, predict.ProviderOllama, "local",
	} {
		pr, err := single(p)
		if err != nil {
			continue // provider not configured
		}
		chain = append(chain, pr)
	}
	if len(chain) == 0 {
		return nil, errors.New("no prediction provider configured")
	}
	return predict.NewAuto(plog, chain...), nil
}
