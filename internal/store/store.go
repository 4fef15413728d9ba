// Package store persists game records so a server restart can replay them.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "game:"

var (
	ErrNotFound = errors.New("game record not found")
	// ErrStale is returned by Save when a newer revision is already stored.
	ErrStale = errors.New("stored record is newer")
)

// Record is everything needed to rebuild a game: its players and the diffs
// applied from the initial position.
type Record struct {
	ID        string       `json:"id"`
	White     string       `json:"white"`
	Black     string       `json:"black"`
	Diffs     []chess.Diff `json:"diffs"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Revision orders records of one game. Seats are never vacated and diffs are
// only appended, so it grows with every change.
func (r Record) Revision() int {
	n := len(r.Diffs)
	if r.White != "" {
		n++
	}
	if r.Black != "" {
		n++
	}
	return n
}

type Options struct {
	Dir      string
	InMemory bool
}

// Store wraps BadgerDB for game records
type Store struct {
	db *badger.DB
}

func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil // Disable logging

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

// Save writes rec unless the store already holds a later revision of the
// same game, in which case it returns ErrStale and leaves the stored record.
func (s *Store) Save(rec Record) error {
	rec.UpdatedAt = time.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	for {
		err = s.db.Update(func(txn *badger.Txn) error {
			cur, err := get(txn, rec.ID)
			switch {
			case errors.Is(err, ErrNotFound):
			case err != nil:
				return err
			case cur.Revision() > rec.Revision():
				return fmt.Errorf("%s at revision %d: %w", rec.ID, cur.Revision(), ErrStale)
			}
			return txn.Set(key(rec.ID), data)
		})
		// A concurrent save of the same game committed first; re-read it.
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
}

func get(txn *badger.Txn, id string) (Record, error) {
	var rec Record
	item, err := txn.Get(key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	return rec, err
}

func (s *Store) Load(id string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = get(txn, id)
		return err
	})
	return rec, err
}

func (s *Store) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
}

// List returns every stored record in key order.
func (s *Store) List() ([]Record, error) {
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}
