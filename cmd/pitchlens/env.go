package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/pitchlens/pitchlens/internal/analyst"
	"github.com/pitchlens/pitchlens/internal/config"
	"github.com/pitchlens/pitchlens/internal/engine"
	"github.com/pitchlens/pitchlens/internal/extract"
	"github.com/pitchlens/pitchlens/internal/ingest"
	"github.com/pitchlens/pitchlens/internal/providers"
	"github.com/pitchlens/pitchlens/internal/store"
)

type runtimeEnv struct {
	SessionID string
	Subject   string
	Stage     string
	Model     string
	LLM       engine.LLMClient
	Store     *store.Store
	Ingestor  *ingest.Ingestor
	Pipeline  *analyst.Pipeline
}

func prepareRuntimeEnv(subject, stage string) (*runtimeEnv, error) {
	userConfig := applyUserConfig()

	if stage == "" {
		stage = userConfig.DefaultStage
	}
	if stage == "" {
		stage = "seed"
	}

	llm, model, err := providers.NewLLMClientFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to build LLM client: %w", err)
	}

	opts := engine.ChatOptions{
		Temperature:     0.1,
		MaxOutputTokens: 4096,
	}
	analysts, err := analyst.NewDefaultAnalysts(llm, model, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysts: %w", err)
	}

	st := store.New()
	return &runtimeEnv{
		SessionID: uuid.NewString(),
		Subject:   subject,
		Stage:     stage,
		Model:     model,
		LLM:       llm,
		Store:     st,
		Ingestor:  ingest.New(st, extract.NewRegistry(), subject),
		Pipeline:  analyst.NewPipeline(st, analysts),
	}, nil
}

// applyUserConfig mirrors the saved configuration into the environment so
// the provider factory sees it. Explicit config wins over stale shell or
// .env values.
func applyUserConfig() *config.Config {
	cfgManager, err := config.NewManager()
	if err != nil {
		log.Printf("failed to initialize config manager: %v", err)
		return &config.Config{}
	}

	userConfig, err := cfgManager.Load()
	if err != nil {
		log.Printf("failed to load user config: %v", err)
		return &config.Config{}
	}
	if cfgManager.Exists() {
		log.Printf("user config loaded from: %s", cfgManager.GetConfigPath())
	}

	if userConfig.LLMProvider != "" {
		os.Setenv("LLM_PROVIDER", userConfig.LLMProvider)
	}
	if userConfig.APIKey != "" {
		switch userConfig.LLMProvider {
		case "openai":
			os.Setenv("OPENAI_API_KEY", userConfig.APIKey)
			if userConfig.Model != "" {
				os.Setenv("OPENAI_MODEL", userConfig.Model)
			}
			if userConfig.BaseURL != "" {
				os.Setenv("OPENAI_BASE_URL", userConfig.BaseURL)
			}
		case "anthropic":
			os.Setenv("ANTHROPIC_API_KEY", userConfig.APIKey)
			if userConfig.Model != "" {
				os.Setenv("ANTHROPIC_MODEL", userConfig.Model)
			}
		case "deepseek":
			os.Setenv("DEEPSEEK_API_KEY", userConfig.APIKey)
			if userConfig.Model != "" {
				os.Setenv("DEEPSEEK_MODEL", userConfig.Model)
			}
		case "groq":
			os.Setenv("GROQ_API_KEY", userConfig.APIKey)
			if userConfig.Model != "" {
				os.Setenv("GROQ_MODEL", userConfig.Model)
			}
		case "kimi":
			os.Setenv("KIMI_API_KEY", userConfig.APIKey)
			if userConfig.Model != "" {
				os.Setenv("KIMI_MODEL", userConfig.Model)
			}
		}
	}

	return userConfig
}
