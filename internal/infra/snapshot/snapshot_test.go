package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpexport/internal/domain"
	"bpexport/internal/exporter"
)

func newStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, ttl), mr
}

func sampleReport() exporter.Report {
	return exporter.Report{
		Email:     "alice@example.org",
		CreatedAt: time.Date(2018, 5, 25, 12, 0, 0, 0, time.UTC),
		Groups: []exporter.ReportGroup{{
			GroupID:    "bp_friends",
			GroupLabel: "Friends",
			Items: []exporter.Item{{
				GroupID: "bp_friends", GroupLabel: "Friends", ItemID: "bp-friends-2",
				Data: []exporter.Field{{Name: "Friend", Value: "Bob"}},
			}},
		}},
	}
}

func TestSaveAndLoad(t *testing.T) {
	s, mr := newStore(t, time.Hour)
	ctx := context.Background()

	saved, err := s.Save(ctx, sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, time.Hour, mr.TTL(key(saved.ID)))

	loaded, err := s.Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSaveAssignsFreshIDs(t *testing.T) {
	s, _ := newStore(t, time.Hour)
	a, err := s.Save(context.Background(), sampleReport())
	require.NoError(t, err)
	b, err := s.Save(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLoadExpired(t *testing.T) {
	s, mr := newStore(t, time.Minute)
	saved, err := s.Save(context.Background(), sampleReport())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = s.Load(context.Background(), saved.ID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestLoadRejectsMalformedIDs(t *testing.T) {
	s, _ := newStore(t, time.Minute)
	_, err := s.Load(context.Background(), "../../etc")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestLoadRedisDown(t *testing.T) {
	s, mr := newStore(t, time.Minute)
	saved, err := s.Save(context.Background(), sampleReport())
	require.NoError(t, err)

	mr.Close()
	_, err = s.Load(context.Background(), saved.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestDelete(t *testing.T) {
	s, _ := newStore(t, time.Minute)
	saved, err := s.Save(context.Background(), sampleReport())
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), saved.ID))
	_, err = s.Load(context.Background(), saved.ID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, time.Minute, New(nil, 0).TTL())
}
