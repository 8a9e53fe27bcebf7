package utils

import (
	"context"
	"errors"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var tokens struct {
	sync.RWMutex
	cache map[string]int
}

var (
	// ErrInvalidAPIKey signals that the provided API key is not known.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrTokenStoreNotReady signals that the token store has not been loaded yet.
	// This can happen during startup when the DB isn't ready.
	ErrTokenStoreNotReady = errors.New("token store not ready")
)

// TokensTable is the name of the API token table for cfg.
func TokensTable(cfg DatabaseConfig) string {
	return cfg.TablePrefix + "bp_export_tokens"
}

// EnsureTokensSchema creates the API token table when it does not exist.
func EnsureTokensSchema(cfg DatabaseConfig) error {
	db, err := OpenDB(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `CREATE TABLE IF NOT EXISTS ` + TokensTable(cfg) + ` (
		token VARCHAR(191) PRIMARY KEY,
		rate_limit INTEGER NOT NULL DEFAULT 60,
		created_at VARCHAR(32) NOT NULL DEFAULT '',
		comment TEXT
	)`
	_, err = db.ExecContext(ctx, ddl)
	return err
}

// LoadTokensFromDB reads all API tokens and their rate limits and stores them
// in an in-memory cache.
func LoadTokensFromDB(cfg DatabaseConfig) error {
	if err := EnsureTokensSchema(cfg); err != nil {
		return err
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return err
	}

	query, args, err := sq.Select("token", "rate_limit").
		From(TokensTable(cfg)).
		PlaceholderFormat(Placeholder(cfg)).
		ToSql()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	cache := make(map[string]int)
	for rows.Next() {
		var token string
		var limit int
		if err := rows.Scan(&token, &limit); err != nil {
			return err
		}
		cache[token] = limit
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tokens.Lock()
	tokens.cache = cache
	tokens.Unlock()
	return nil
}

// LoadTokensFromMap is a small helper intended for tests and local debugging.
// It replaces the current in-memory token cache with the provided map.
func LoadTokensFromMap(m map[string]int) {
	cache := make(map[string]int)
	for k, v := range m {
		cache[k] = v
	}
	tokens.Lock()
	tokens.cache = cache
	tokens.Unlock()
}

// TokensReady returns true if the token cache has been initialized at least once.
func TokensReady() bool {
	tokens.RLock()
	defer tokens.RUnlock()
	return tokens.cache != nil
}

// ValidateToken checks whether the given token exists in the cached list.
func ValidateToken(token string) bool {
	tokens.RLock()
	defer tokens.RUnlock()
	_, ok := tokens.cache[token]
	return ok
}

// GetRateLimit returns the configured rate limit for the given token. If the
// token is unknown, 0 is returned which effectively disables rate limiting for
// that token.
func GetRateLimit(token string) int {
	tokens.RLock()
	defer tokens.RUnlock()
	if limit, ok := tokens.cache[token]; ok {
		return limit
	}
	return 0
}

// RefreshTokensPeriodically reloads the token list at the specified interval.
// It stops once the provided stop channel is closed.
func RefreshTokensPeriodically(cfg DatabaseConfig, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := LoadTokensFromDB(cfg); err != nil {
				Error("Failed to reload API tokens", "error", err)
			}
		case <-stop:
			return
		}
	}
}
