package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"photogrid/internal/domain"
)

var samplePhotos = []domain.Photo{{ID: 1, URL: "a"}, {ID: 2, URL: "b"}}

func TestMemoryGetPut(t *testing.T) {
	m := NewMemory(2, time.Hour)
	defer m.Close()

	_, ok := m.Get("cats")
	assert.False(t, ok)

	m.Put("Cats ", samplePhotos)
	got, ok := m.Get("cats")
	require.True(t, ok, "keys are normalized and case-insensitive")
	assert.Equal(t, samplePhotos, got)

	got[0].URL = "mutated"
	again, _ := m.Get("cats")
	assert.Equal(t, "a", again[0].URL, "callers get a copy")
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	m := NewMemory(2, time.Hour)
	m.Put("a", samplePhotos)
	m.Put("b", samplePhotos)
	m.Get("a")
	m.Put("c", samplePhotos)

	_, ok := m.Get("b")
	assert.False(t, ok)
	_, ok = m.Get("a")
	assert.True(t, ok)
	_, ok = m.Get("c")
	assert.True(t, ok)
}

func TestMemoryExpires(t *testing.T) {
	m := NewMemory(4, 20*time.Millisecond)
	m.Put("a", samplePhotos)
	time.Sleep(80 * time.Millisecond)
	_, ok := m.Get("a")
	assert.False(t, ok)
}

func TestBoltPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "results.db")

	b, err := OpenBolt(path, time.Hour)
	require.NoError(t, err)
	b.Put("Mountains", samplePhotos)
	require.NoError(t, b.Close())

	b, err = OpenBolt(path, time.Hour)
	require.NoError(t, err)
	defer b.Close()

	got, ok := b.Get("mountains")
	require.True(t, ok)
	assert.Equal(t, samplePhotos, got)
}

func TestBoltExpiryAndPrune(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "results.db"), time.Hour)
	require.NoError(t, err)
	defer b.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	b.Put("old", samplePhotos)

	now = now.Add(30 * time.Minute)
	b.Put("fresh", samplePhotos)

	now = now.Add(45 * time.Minute)
	_, ok := b.Get("old")
	assert.False(t, ok)
	_, ok = b.Get("fresh")
	assert.True(t, ok)

	removed, err := b.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestOpenBoltPrunesExpiredEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	b, err := OpenBolt(path, time.Hour)
	require.NoError(t, err)
	b.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	b.Put("old", samplePhotos)
	b.now = time.Now
	b.Put("fresh", samplePhotos)
	require.NoError(t, b.Close())

	b, err = OpenBolt(path, time.Hour)
	require.NoError(t, err)
	defer b.Close()

	var keys []string
	require.NoError(t, b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResults).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	}))
	assert.Equal(t, []string{"fresh"}, keys)
}

func TestOpenKinds(t *testing.T) {
	c, err := Open(Options{Kind: "none"})
	require.NoError(t, err)
	c.Put("x", samplePhotos)
	_, ok := c.Get("x")
	assert.False(t, ok)

	c, err = Open(Options{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = Open(Options{Kind: "bolt", Path: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &Bolt{}, c)
	require.NoError(t, c.Close())

	_, err = Open(Options{Kind: "redis"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}
