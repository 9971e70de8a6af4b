package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/board"
)

// Storage keys
const (
	keySettings = "settings"

	// analysisRoot holds every analysis format ever written. Bump the version
	// in analysisKeyPrefix whenever evaluation or move ordering changes what a
	// search returns; entries under older versions are never read again.
	analysisRoot      = "analysis/"
	analysisKeyPrefix = analysisRoot + "v1/"
)

// DefaultAnalysisTTL bounds how long a cached analysis is kept.
const DefaultAnalysisTTL = 30 * 24 * time.Hour

// Settings stores engine options that survive restarts.
type Settings struct {
	Depth         int       `json:"depth"`
	AnalysisCache bool      `json:"analysis_cache"`
	LastUsed      time.Time `json:"last_used"`
}

// DefaultSettings returns default engine settings
func DefaultSettings() *Settings {
	return &Settings{
		Depth:         5,
		AnalysisCache: true,
		LastUsed:      time.Now(),
	}
}

// Analysis is one finished search as stored in the cache.
type Analysis struct {
	Move     string    `json:"move"`
	Score    int       `json:"score"`
	StoredAt time.Time `json:"stored_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	ttl time.Duration
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database at dir. An empty dir keeps everything in memory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}

	s := &Storage{db: db, ttl: DefaultAnalysisTTL}
	if err := s.dropStaleAnalyses(); err != nil {
		db.Close()
		return nil, fmt.Errorf("drop stale analyses: %w", err)
	}
	return s, nil
}

// dropStaleAnalyses deletes analyses written under an older key version.
func (s *Storage) dropStaleAnalyses() error {
	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(analysisRoot)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if !bytes.HasPrefix(key, []byte(analysisKeyPrefix)) {
				stale = append(stale, key)
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// SetAnalysisTTL changes the lifetime of analyses stored from now on.
// Zero keeps them forever.
func (s *Storage) SetAnalysisTTL(ttl time.Duration) {
	s.ttl = ttl
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSettings saves engine settings
func (s *Storage) SaveSettings(settings *Settings) error {
	settings.LastUsed = time.Now()

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keySettings), data)
	})
}

// LoadSettings loads engine settings, returns defaults if not found
func (s *Storage) LoadSettings() (*Settings, error) {
	settings := DefaultSettings()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keySettings))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, settings)
		})
	})

	return settings, err
}

// analysisKey lays out prefix | hash | depth | history digest, big-endian.
func analysisKey(hash uint64, depth int, digest uint64) []byte {
	key := make([]byte, 0, len(analysisKeyPrefix)+20)
	key = append(key, analysisKeyPrefix...)
	key = binary.BigEndian.AppendUint64(key, hash)
	key = binary.BigEndian.AppendUint32(key, uint32(depth))
	key = binary.BigEndian.AppendUint64(key, digest)
	return key
}

// SaveAnalysis stores the result of a search.
func (s *Storage) SaveAnalysis(hash uint64, depth int, digest uint64, a *Analysis) error {
	if a.StoredAt.IsZero() {
		a.StoredAt = time.Now()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	entry := badger.NewEntry(analysisKey(hash, depth, digest), data)
	if s.ttl > 0 {
		entry = entry.WithTTL(s.ttl)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

// LoadAnalysis returns the stored search result, or nil if there is none.
func (s *Storage) LoadAnalysis(hash uint64, depth int, digest uint64) (*Analysis, error) {
	var a *Analysis

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(hash, depth, digest))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			a = &Analysis{}
			return json.Unmarshal(val, a)
		})
	})

	return a, err
}

// CountAnalyses returns the number of cached analyses.
func (s *Storage) CountAnalyses() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(analysisKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// ClearAnalyses drops every cached analysis of any version. Settings are kept.
func (s *Storage) ClearAnalyses() error {
	return s.db.DropPrefix([]byte(analysisRoot))
}

// Lookup returns a cached search result. Read failures count as a miss.
func (s *Storage) Lookup(hash uint64, depth int, digest uint64) (board.Move, int, bool) {
	a, err := s.LoadAnalysis(hash, depth, digest)
	if err != nil {
		log.Printf("Warning: Failed to load analysis: %v", err)
		return board.NoMove, 0, false
	}
	if a == nil {
		return board.NoMove, 0, false
	}

	if a.Move == board.NoMove.String() {
		return board.NoMove, a.Score, true
	}
	m, err := board.ParseMove(a.Move, nil)
	if err != nil {
		log.Printf("Warning: Corrupt analysis entry %q: %v", a.Move, err)
		return board.NoMove, 0, false
	}
	return m, a.Score, true
}

// Store records a search result.
func (s *Storage) Store(hash uint64, depth int, digest uint64, move board.Move, score int) error {
	return s.SaveAnalysis(hash, depth, digest, &Analysis{Move: move.String(), Score: score})
}
