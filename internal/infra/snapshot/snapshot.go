// Package snapshot keeps collected reports in Redis for a limited time so
// they can be downloaded again as JSON, HTML or PDF.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"

	"bpexport/internal/domain"
	"bpexport/internal/exporter"
	u "bpexport/internal/utils"
)

const keyPrefix = "bpexport:snapshot:"

// Store saves reports under generated ids.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a Store writing to rdb. A ttl <= 0 falls back to one minute.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL returns how long snapshots are kept.
func (s *Store) TTL() time.Duration { return s.ttl }

func key(id string) string { return keyPrefix + id }

// Save assigns r a new id, stores it and returns the stored report.
func (s *Store) Save(ctx context.Context, r exporter.Report) (exporter.Report, error) {
	r.ID = xid.New().String()
	raw, err := json.Marshal(r)
	if err != nil {
		return exporter.Report{}, fmt.Errorf("encode snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.rdb.Set(ctx, key(r.ID), raw, s.ttl).Err(); err != nil {
		return exporter.Report{}, fmt.Errorf("store snapshot: %w", err)
	}
	u.Debug("Snapshot stored", "id", r.ID, "items", r.ItemCount(), "ttl", s.ttl.String())
	return r, nil
}

// Load returns the snapshot with id, or domain.ErrSnapshotNotFound once it
// has expired.
func (s *Store) Load(ctx context.Context, id string) (exporter.Report, error) {
	if _, err := xid.FromString(id); err != nil {
		return exporter.Report{}, domain.ErrSnapshotNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return exporter.Report{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		u.Warn("Redis read failed", "error", err)
		return exporter.Report{}, fmt.Errorf("load snapshot: %w", err)
	}

	var r exporter.Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return exporter.Report{}, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return r, nil
}

// Delete removes a snapshot. Missing ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return s.rdb.Del(ctx, key(id)).Err()
}
