package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"photogrid/internal/domain"
)

var bucketResults = []byte("results")

type boltEntry struct {
	StoredAt time.Time      `json:"stored_at"`
	Photos   []domain.Photo `json:"photos"`
}

// Bolt persists responses in a bbolt database so they survive restarts
type Bolt struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

// OpenBolt opens (or creates) the database at path and drops entries that
// expired since it was last used.
func OpenBolt(path string, ttl time.Duration) (*Bolt, error) {
	if path == "" {
		return nil, fmt.Errorf("cache: bolt cache needs a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResults)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b := &Bolt{db: db, ttl: ttl, now: time.Now}
	if _, err := b.Prune(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prune cache database: %w", err)
	}
	return b, nil
}

func (b *Bolt) Get(term string) ([]domain.Photo, bool) {
	var entry boltEntry
	found := false

	_ = b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketResults).Get([]byte(Key(term)))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &entry); err != nil {
			return nil
		}
		found = true
		return nil
	})

	if !found || b.now().Sub(entry.StoredAt) > b.ttl {
		return nil, false
	}
	return entry.Photos, true
}

func (b *Bolt) Put(term string, photos []domain.Photo) {
	data, err := json.Marshal(boltEntry{StoredAt: b.now(), Photos: photos})
	if err != nil {
		return
	}
	_ = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResults).Put([]byte(Key(term)), data)
	})
}

// Prune deletes expired entries and returns how many were removed
func (b *Bolt) Prune() (int, error) {
	removed := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketResults)
		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var entry boltEntry
			if err := json.Unmarshal(v, &entry); err != nil || b.now().Sub(entry.StoredAt) > b.ttl {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
