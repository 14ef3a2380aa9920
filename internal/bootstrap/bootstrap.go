// Package bootstrap builds the lookup adapters and storage clients shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/phish-dataset/internal/adapter/dnsresolver"
	"github.com/user/phish-dataset/internal/adapter/ipinfo"
	"github.com/user/phish-dataset/internal/adapter/ollama"
	"github.com/user/phish-dataset/internal/adapter/postgres"
	"github.com/user/phish-dataset/internal/adapter/whois"
	"github.com/user/phish-dataset/internal/repository"
	"github.com/user/phish-dataset/pkg/config"
	"go.uber.org/zap"
)

// Lookups are the network adapters an enrichment needs.
type Lookups struct {
	Resolver repository.DNSResolver
	Whois    repository.WhoisLookup
}

// NewLookups wires DNS, geolocation and WHOIS. cache may be nil to disable the
// geolocation cache. Without a WHOIS API key, raw port 43 lookups are used.
func NewLookups(cfg *config.Config, cache repository.GeoCacheRepository, logger *zap.Logger) (*Lookups, error) {
	geo, err := ipinfo.NewGeolocator(ipinfo.Options{
		BaseURL:  cfg.IPInfoBaseURL,
		Token:    cfg.IPInfoAPIKey,
		Rate:     cfg.IPInfoRate,
		Timeout:  config.Seconds(cfg.LookupTimeout),
		Cache:    cache,
		CacheTTL: time.Duration(cfg.GeoCacheHours) * time.Hour,
	}, logger.Named("ipinfo"))
	if err != nil {
		return nil, fmt.Errorf("geolocator: %w", err)
	}

	resolver := dnsresolver.NewResolver(cfg.DNSServer, config.Seconds(cfg.DNSTimeout), geo, logger.Named("dns"))

	var lookup repository.WhoisLookup
	if cfg.WhoisAPIKey != "" {
		lookup = whois.NewFreaksClient(cfg.WhoisBaseURL, cfg.WhoisAPIKey, cfg.WhoisRate, config.Seconds(cfg.LookupTimeout), logger.Named("whois"))
	} else {
		logger.Warn("WHOIS_API_KEY not set, using raw WHOIS lookups")
		lookup = whois.NewRawClient(cfg.WhoisRate, config.Seconds(cfg.LookupTimeout), logger.Named("whois"))
	}

	return &Lookups{Resolver: resolver, Whois: lookup}, nil
}

// NewGenerator builds the variant generator from the ollama settings.
func NewGenerator(cfg *config.Config, logger *zap.Logger) repository.VariantGenerator {
	return ollama.NewGenerator(ollama.Options{
		BaseURL:     cfg.OllamaURL,
		Model:       cfg.OllamaModel,
		Temperature: cfg.OllamaTemp,
		Timeout:     config.Seconds(cfg.OllamaTimeout),
	}, logger.Named("ollama"))
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewPostgres opens a pool and creates the tables if needed.
func NewPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return pool, nil
}
