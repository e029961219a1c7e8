// Command kbsync is the knowledge-base sync client.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/tidewater-labs/kbsync/internal/adapters/driven/api"
	"github.com/tidewater-labs/kbsync/internal/adapters/driven/auth"
	configfile "github.com/tidewater-labs/kbsync/internal/adapters/driven/config/file"
	"github.com/tidewater-labs/kbsync/internal/adapters/driven/storage/memory"
	redisstore "github.com/tidewater-labs/kbsync/internal/adapters/driven/storage/redis"
	"github.com/tidewater-labs/kbsync/internal/adapters/driven/storage/sqlite"
	"github.com/tidewater-labs/kbsync/internal/adapters/driving/cli"
	"github.com/tidewater-labs/kbsync/internal/core/domain"
	"github.com/tidewater-labs/kbsync/internal/core/ports/driven"
	"github.com/tidewater-labs/kbsync/internal/core/services"
	"github.com/tidewater-labs/kbsync/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kbsync: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	baseURL := cfg.GetString("api.base_url")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	tokens := tokenProvider(cfg)

	var opts []api.Option
	if limit := cfg.GetInt("api.rate_limit"); limit > 0 {
		opts = append(opts, api.WithRateLimit(rate.Limit(limit), limit*2))
	}
	client := api.NewClient(baseURL, tokens, opts...)

	cache, err := cacheStore(cfg)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	store := services.NewStore(client, cache)
	if err := store.Init(context.Background()); err != nil {
		logger.Warn("Cache load failed, starting empty: %v", err)
	}
	defer store.Close() //nolint:errcheck

	interval := cfg.GetDuration("watch.interval", services.DefaultPollInterval)
	watcher := services.NewWatcher(store, interval)
	defer watcher.StopAll()

	cli.SetVersion(version)
	cli.SetServices(store, watcher, cfg)
	return cli.Execute()
}

// tokenProvider picks the auth backend named by auth.method.
func tokenProvider(cfg driven.ConfigStore) driven.TokenProvider {
	switch cfg.GetString("auth.method") {
	case "oauth":
		stored := domain.OAuthToken{
			AccessToken:  cfg.GetString("oauth.access_token"),
			RefreshToken: cfg.GetString("oauth.refresh_token"),
		}
		if raw := cfg.GetString("oauth.expiry"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				stored.Expiry = t
			}
		}
		return auth.NewOAuthProvider(
			cfg.GetString("oauth.client_id"),
			cfg.GetString("oauth.client_secret"),
			cfg.GetString("oauth.token_url"),
			stored,
			func(tok domain.OAuthToken) { persistOAuthToken(cfg, tok) },
		)
	case "token":
		return auth.NewStaticProvider(cfg.GetString("api.token"))
	default:
		return auth.NewNullProvider()
	}
}

// persistOAuthToken writes rotated OAuth credentials back to the config so
// the next run can refresh again.
func persistOAuthToken(cfg driven.ConfigStore, tok domain.OAuthToken) {
	if err := cfg.Set("oauth.access_token", tok.AccessToken); err != nil {
		logger.Warn("Failed to persist access token: %v", err)
		return
	}
	if tok.RefreshToken != "" {
		if err := cfg.Set("oauth.refresh_token", tok.RefreshToken); err != nil {
			logger.Warn("Failed to persist refresh token: %v", err)
		}
	}
	if !tok.Expiry.IsZero() {
		if err := cfg.Set("oauth.expiry", tok.Expiry.Format(time.RFC3339)); err != nil {
			logger.Warn("Failed to persist token expiry: %v", err)
		}
	}
}

// cacheStore picks the persistence backend named by cache.backend.
func cacheStore(cfg *configfile.ConfigStore) (driven.CacheStore, error) {
	switch cfg.GetString("cache.backend") {
	case "redis":
		addr := cfg.GetString("cache.redis_addr")
		if addr == "" {
			addr = "localhost:6379"
		}
		return redisstore.NewCacheStore(context.Background(), addr,
			cfg.GetString("cache.redis_password"), cfg.GetInt("cache.redis_db"))
	case "memory":
		return memory.NewCacheStore(), nil
	default:
		return sqlite.NewStore(cfg.GetString("cache.dir"))
	}
}
