package di

import (
	"context"
	nethttp "net/http"

	httpadapter "github.com/apexneural-anniesiri/Project-CUA/internal/adapter/http"
	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/output"
	"github.com/apexneural-anniesiri/Project-CUA/internal/application/service"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/browser/rod"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/llm/openai"
	"github.com/apexneural-anniesiri/Project-CUA/internal/infrastructure/logger"
	"github.com/apexneural-anniesiri/Project-CUA/internal/usecase/agent"
	"github.com/apexneural-anniesiri/Project-CUA/internal/usecase/decision"
)

// Config collects everything the wiring reads from the environment.
type Config struct {
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	BrowserHeadless bool
	LogLevel        string
	LogFormat       string
}

// ConfigFromEnv reads the service configuration with defaults suited to
// local development. Model and base URL fall back to the client defaults
// when unset.
func ConfigFromEnv(envs output.ConfigPort) Config {
	return Config{
		OpenAIAPIKey:    envs.Get("OPENAI_API_KEY"),
		OpenAIModel:     envs.Get("OPENAI_MODEL"),
		OpenAIBaseURL:   envs.Get("OPENAI_BASE_URL"),
		BrowserHeadless: envs.GetBool("BROWSER_HEADLESS", true),
		LogLevel:        envs.GetWithDefault("LOG_LEVEL", "info"),
		LogFormat:       envs.GetWithDefault("LOG_FORMAT", "json"),
	}
}

// Container holds the wired object graph. Browsers are not launched here:
// each session gets its own driver from the factory when it starts.
type Container struct {
	Logger   output.LoggerPort
	Sessions *agent.Service
	Handler  nethttp.Handler
}

func NewContainer(cfg Config) *Container {
	log := logger.NewZapAdapter(cfg.LogLevel, cfg.LogFormat)

	llmCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIModel != "" {
		llmCfg.Model = cfg.OpenAIModel
	}
	llmCfg.BaseURL = cfg.OpenAIBaseURL
	llmCfg.Logger = log
	llm := openai.NewOpenAIAdapter(llmCfg)

	engine := decision.New(llm, log)
	registry := service.NewSessionRegistry()

	newDriver := func(ctx context.Context) (output.BrowserPort, error) {
		browserCfg := rod.DefaultConfig()
		browserCfg.Headless = cfg.BrowserHeadless
		return rod.NewSessionDriver(ctx, browserCfg, log)
	}

	sessions := agent.NewService(registry, engine, newDriver, cfg.OpenAIAPIKey, log)
	handler := httpadapter.NewHandler(sessions, log)

	return &Container{
		Logger:   log,
		Sessions: sessions,
		Handler:  handler.Router(),
	}
}

// Close disposes every live session and flushes the logger.
func (c *Container) Close() {
	c.Sessions.Close()
	_ = c.Logger.Sync()
}
