package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/dgraph-io/badger/v4"
)

const snapshotPrefix = "game/"

var ErrSnapshotNotFound = errors.New("snapshot not found")

// GameSnapshot is everything needed to bring a session back after a restart.
type GameSnapshot struct {
	GameID     string       `json:"gameId"`
	InitialFEN string       `json:"initialFen"`
	White      string       `json:"white"`
	Black      string       `json:"black"`
	Record     model.Record `json:"record"`
	SavedAt    time.Time    `json:"savedAt"`
}

// SnapshotStore keeps the latest snapshot of each game in BadgerDB.
type SnapshotStore struct {
	db *badger.DB
}

// OpenSnapshotStore opens a store in dir. An empty dir keeps everything in
// memory.
func OpenSnapshotStore(dir string) (*SnapshotStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func snapshotKey(gameID string) []byte {
	return []byte(snapshotPrefix + gameID)
}

func (s *SnapshotStore) Save(snap GameSnapshot) error {
	snap.SavedAt = time.Now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(snap.GameID), data)
	})
}

func (s *SnapshotStore) Load(gameID string) (GameSnapshot, error) {
	var snap GameSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(gameID))
		if err == badger.ErrKeyNotFound {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	return snap, err
}

func (s *SnapshotStore) Delete(gameID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(snapshotKey(gameID))
	})
}

// List returns the ids of every stored game in key order
func (s *SnapshotStore) List() ([]string, error) {
	ids := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(snapshotPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().KeyCopy(nil))
			ids = append(ids, strings.TrimPrefix(key, snapshotPrefix))
		}
		return nil
	})
	return ids, err
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
