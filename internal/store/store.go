// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

// Package store persists the service's documents in Badger.
//
// The layout mirrors the document tree the recommendation engine reads:
//
//	users/<id>     one JSON profile per user
//	students/<id>  one JSON row of the tabular training dataset
//	contents       the raw catalog document, list or mapping shape
//	meta/snapshot  monotonically increasing data version
//
// Every write bumps the snapshot version in the same transaction, which
// lets the engine memoize trained models against it.
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/skillscout/internal/metrics"
	"github.com/tomtom215/skillscout/internal/recommend"
	"github.com/tomtom215/skillscout/internal/recommend/ratings"
)

const (
	userPrefix    = "users/"
	studentPrefix = "students/"
	contentsKey   = "contents"
	snapshotKey   = "meta/snapshot"
)

// Config controls the document store.
type Config struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps all data in memory, for tests and ephemeral deploys.
	InMemory bool `koanf:"in_memory"`
}

// Store is a Badger-backed document store. It implements the engine's
// ProfileStore, ContentStore, StudentSource and Snapshotter interfaces.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens or creates the store.
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetProfile returns the profile and whether it exists.
func (s *Store) GetProfile(_ context.Context, id string) (recommend.UserProfile, bool, error) {
	var profile recommend.UserProfile
	var found bool

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	metrics.RecordStoreOperation("get", err)
	if err != nil {
		return recommend.UserProfile{}, false, fmt.Errorf("get profile %s: %w", id, err)
	}
	return profile, found, nil
}

// ListProfiles returns all profiles keyed by user ID.
func (s *Store) ListProfiles(_ context.Context) (map[string]recommend.UserProfile, error) {
	out := make(map[string]recommend.UserProfile)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(userPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), userPrefix)
			err := item.Value(func(val []byte) error {
				var profile recommend.UserProfile
				if err := json.Unmarshal(val, &profile); err != nil {
					// One corrupt document must not hide every other user.
					s.logger.Warn().Str("user_id", id).Err(err).Msg("skipping corrupt profile")
					return nil
				}
				out[id] = profile
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

// PutProfile upserts a profile and bumps the snapshot version.
func (s *Store) PutProfile(_ context.Context, profile recommend.UserProfile) error {
	if profile.ID == "" {
		return errors.New("put profile: empty id")
	}
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("put profile %s: %w", profile.ID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(userPrefix+profile.ID), doc); err != nil {
			return err
		}
		return s.bumpSnapshot(txn)
	})
	metrics.RecordStoreOperation("set", err)
	if err != nil {
		return fmt.Errorf("put profile %s: %w", profile.ID, err)
	}
	return nil
}

// GetCatalog returns the raw catalog document, or nil when none is stored.
func (s *Store) GetCatalog(_ context.Context) ([]byte, error) {
	var raw []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(contentsKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	metrics.RecordStoreOperation("get", err)
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return raw, nil
}

// PutCatalog stores the raw catalog document. The shape is validated here
// so a broken upload fails loudly instead of degrading every later
// recommendation.
func (s *Store) PutCatalog(_ context.Context, raw []byte) error {
	if _, err := recommend.NormalizeCatalog(raw); err != nil {
		return fmt.Errorf("put catalog: %w", err)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(contentsKey), raw); err != nil {
			return err
		}
		return s.bumpSnapshot(txn)
	})
	metrics.RecordStoreOperation("set", err)
	if err != nil {
		return fmt.Errorf("put catalog: %w", err)
	}
	return nil
}

// ListStudents returns the tabular training dataset.
func (s *Store) ListStudents(_ context.Context) ([]ratings.Student, error) {
	var out []ratings.Student

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(studentPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec recommend.StudentRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				out = append(out, ratings.Student{
					ID:           rec.ID,
					Name:         rec.Name,
					SkillsRaw:    rec.SkillsRaw,
					Interactions: rec.Interactions,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return out, nil
}

// PutStudents replaces or extends the student dataset in one transaction.
func (s *Store) PutStudents(_ context.Context, students []recommend.StudentRecord) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, st := range students {
			if st.ID == "" {
				return errors.New("student with empty id")
			}
			doc, err := json.Marshal(st)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(studentPrefix+st.ID), doc); err != nil {
				return err
			}
		}
		return s.bumpSnapshot(txn)
	})
	metrics.RecordStoreOperation("set", err)
	if err != nil {
		return fmt.Errorf("put students: %w", err)
	}
	return nil
}

// SnapshotVersion returns the current data version. A store that has never
// been written reports 0.
func (s *Store) SnapshotVersion(_ context.Context) (uint64, error) {
	var version uint64

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) == 8 {
				version = binary.BigEndian.Uint64(val)
			}
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("snapshot version: %w", err)
	}
	return version, nil
}

// bumpSnapshot increments the version inside the caller's transaction.
func (s *Store) bumpSnapshot(txn *badger.Txn) error {
	var version uint64
	item, err := txn.Get([]byte(snapshotKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return err
	default:
		if verr := item.Value(func(val []byte) error {
			if len(val) == 8 {
				version = binary.BigEndian.Uint64(val)
			}
			return nil
		}); verr != nil {
			return verr
		}
	}

	version++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, version)
	if err := txn.Set([]byte(snapshotKey), buf); err != nil {
		return err
	}
	metrics.StoreSnapshotVersion.Set(float64(version))
	return nil
}
