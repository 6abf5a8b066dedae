package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/kataras/golog"
	"github.com/spf13/viper"

	"research-agent/agent"
	"research-agent/cache"
	"research-agent/obs"
	"research-agent/search"
)

// initConfig binds configuration from the environment. A .env file in the
// working directory is loaded first when present.
func initConfig() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("AGENT")
	viper.AutomaticEnv()

	// Credentials and endpoints keep their conventional unprefixed names.
	_ = viper.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = viper.BindEnv("tavily_api_key", "TAVILY_API_KEY")
	_ = viper.BindEnv("brave_api_key", "BRAVE_API_KEY")
	_ = viper.BindEnv("redis_url", "REDIS_URL")

	viper.SetDefault("log_level", "info")
	viper.SetDefault("cache_ttl", time.Hour)
	viper.SetDefault("tracing", false)
}

// app bundles the agent with the resources that need teardown.
type app struct {
	*agent.Agent

	cache    *cache.Client
	shutdown func(context.Context) error
}

// newApp constructs the dependency graph from configuration: LLM backend,
// retrieval chain behind the optional cache, tracing and the compiled
// pipeline. Missing credentials select the offline fallbacks.
func newApp(ctx context.Context) (*app, func(), error) {
	golog.SetLevel(viper.GetString("log_level"))

	a := &app{}

	if viper.GetBool("tracing") {
		shutdown, err := obs.InitTracing(ctx)
		if err != nil {
			return nil, nil, err
		}
		a.shutdown = shutdown
	}

	a.cache = cache.New(ctx, cache.Options{URL: viper.GetString("redis_url")})

	var retriever search.Retriever = search.NewWebSearcher(search.Config{
		TavilyAPIKey: viper.GetString("tavily_api_key"),
		BraveAPIKey:  viper.GetString("brave_api_key"),
	})
	retriever = cache.Retriever(a.cache, viper.GetDuration("cache_ttl"), retriever)

	var llm agent.LLM
	if key := viper.GetString("openai_api_key"); key != "" {
		llm = agent.NewOpenAI(key)
	} else {
		golog.Debugf("no OPENAI_API_KEY, running with offline stubs")
	}

	ag, err := agent.New(agent.Config{
		LLM:       llm,
		Retriever: retriever,
		Tracer:    obs.NewGraphTracer(),
	})
	if err != nil {
		return nil, nil, err
	}
	a.Agent = ag

	cleanup := func() {
		if a.cache != nil {
			_ = a.cache.Close()
		}
		if a.shutdown != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = a.shutdown(shutdownCtx)
		}
	}
	return a, cleanup, nil
}
