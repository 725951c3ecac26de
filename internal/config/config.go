package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration, read once at startup and
// threaded explicitly. A .env file in the working directory is loaded
// first when present.
type Config struct {
	HTTPAddr    string
	LogLevel    string
	LogFormat   string // "json" or "pretty"
	CORSOrigins []string

	AdminUser     string
	AdminPassHash string // bcrypt
	AuthSecret    string

	DBDriver        string
	DBDSN           string
	SaveHistory     bool
	MaxHistoryItems int

	// Browser session
	TargetURL   string
	Headless    bool
	ExecPath    string
	UserDataDir string

	// Detection
	DOMDetection    bool
	ShadowDOM       bool
	ImageDetection  bool
	MathDetection   bool
	CustomSelectors []string
	OCREnabled      bool
	OCRLanguage     string

	// Answering
	AutoAnswer     bool
	AnswerDelay    time.Duration
	MaxAnswerDelay time.Duration
	ScanInterval   time.Duration

	// Prediction
	Provider       string // openai|gemini|deepseek|ollama|local|auto
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	GeminiKey      string
	GeminiModel    string
	DeepSeekKey    string
	DeepSeekModel  string
	OllamaHost     string
	OllamaModel    string
	LocalBackend   string
	PromptTemplate string
	Temperature    float64
	MaxTokens      int
}

func FromEnv() Config {
	_ = godotenv.Load() // .env is optional

	return Config{
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "json"),
		CORSOrigins: csv(os.Getenv("CORS_ORIGINS")),

		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: os.Getenv("ADMIN_PASS_HASH"),
		AuthSecret:    envOr("AUTH_HMAC_SECRET", "quizpilot-dev-key"),

		DBDriver:        envOr("DB_DRIVER", "sqlite"),
		DBDSN:           os.Getenv("DB_DSN"),
		SaveHistory:     envBool("SAVE_HISTORY", true),
		MaxHistoryItems: envInt("MAX_HISTORY_ITEMS", 50),

		TargetURL:   os.Getenv("TARGET_URL"),
		Headless:    envBool("HEADLESS", false),
		ExecPath:    os.Getenv("BROWSER_EXEC_PATH"),
		UserDataDir: os.Getenv("BROWSER_USER_DATA_DIR"),

		DOMDetection:    envBool("DOM_DETECTION", true),
		ShadowDOM:       envBool("SHADOW_DOM_DETECTION", true),
		ImageDetection:  envBool("IMAGE_DETECTION", false),
		MathDetection:   envBool("MATH_DETECTION", false),
		CustomSelectors: lines(os.Getenv("CUSTOM_SELECTORS")),
		OCREnabled:      envBool("OCR_ENABLED", false),
		OCRLanguage:     envOr("OCR_LANGUAGE", "eng"),

		AutoAnswer:     envBool("AUTO_ANSWER", true),
		AnswerDelay:    envDuration("ANSWER_DELAY", 3*time.Second),
		MaxAnswerDelay: envDuration("MAX_ANSWER_DELAY", 6*time.Second),
		ScanInterval:   envDuration("SCAN_INTERVAL", time.Second),

		Provider:       envOr("PROVIDER", "auto"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    envOr("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    envOr("GEMINI_MODEL", "gemini-pro"),
		DeepSeekKey:    os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekModel:  envOr("DEEPSEEK_MODEL", "deepseek-chat"),
		OllamaHost:     os.Getenv("OLLAMA_HOST"),
		OllamaModel:    envOr("OLLAMA_MODEL", "llama3"),
		LocalBackend:   os.Getenv("LOCAL_BACKEND_URL"),
		PromptTemplate: os.Getenv("PROMPT_TEMPLATE"),
		Temperature:    envFloat("TEMPERATURE", 0.3),
		MaxTokens:      envInt("MAX_TOKENS", 50),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// envDuration accepts Go duration syntax ("1500ms") or bare seconds ("3").
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func csv(v string) []string {
	return splitClean(v, ",")
}

// lines splits on newlines so selectors may contain commas.
func lines(v string) []string {
	return splitClean(v, "\n")
}

func splitClean(v, sep string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
