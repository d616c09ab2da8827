package main

import (
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"smartprocure/ai"
	"smartprocure/classification"
	"smartprocure/comparison"
	"smartprocure/engine"
	"smartprocure/grouping"
	"smartprocure/internal/config"
	"smartprocure/normalization"
	"smartprocure/server"
)

func main() {
	// .env необязателен: в проде конфигурация приходит из окружения
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] Invalid configuration: %v", err)
	}

	var inference ai.Inference
	if cfg.AIAPIKey != "" {
		inference = ai.NewClient(ai.ClientConfig{
			BaseURL:   cfg.AIBaseURL,
			APIKey:    cfg.AIAPIKey,
			Model:     cfg.AIModel,
			Timeout:   cfg.AITimeout,
			RateLimit: rate.Limit(cfg.AIRateRPS),
			MaxTokens: cfg.AIMaxTokens,
		})
	} else {
		// Без ключа движок работает только на детерминированных путях
		log.Printf("[Main] AI_API_KEY is not set, running with deterministic fallbacks only")
	}

	normalizer := normalization.NewUnitNormalizer(inference)
	classifier := classification.NewClassifier(inference,
		classification.NewCache(cfg.CategoryCacheSize, cfg.CategoryCacheTTL))
	grouper := &grouping.Grouper{
		Threshold:   cfg.GroupingThreshold,
		UseStemming: cfg.UseStemming,
	}
	comparator := comparison.NewComparator(inference, cfg.CompareWorkers)

	eng := engine.New(normalizer, classifier, grouper, comparator)

	srv := server.New(eng, cfg.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("[Main] Server stopped: %v", err)
	}
}
