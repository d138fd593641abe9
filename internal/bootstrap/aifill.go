package bootstrap

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/commhub/community-settings/config"
	"github.com/commhub/community-settings/internal/aifill"
)

// BuildAIFill always returns a service; without an API key its Fill
// answers ErrUnavailable.
func BuildAIFill(ctx context.Context, cfg config.AIConfig, rdb *redis.Client) *aifill.Service {
	var gen aifill.Generator
	if cfg.APIKey != "" {
		g, err := aifill.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			log.Printf("AI fill disabled: %v", err)
		} else {
			gen = g
		}
	} else {
		log.Println("GEMINI_API_KEY not set, AI fill disabled")
	}

	opt := aifill.Options{PerMinute: cfg.PerMinute, Timeout: cfg.CallTimeout}
	if rdb != nil {
		opt.Cache = aifill.NewCache(rdb, cfg.CacheTTL)
	}
	return aifill.NewService(gen, opt)
}
