package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/telemetry"
)

// snapshotDB wraps the pebble handle used for whole-state serialization.
// Snapshots are written under snapshot:<unix_nano> keys with the most
// recent copy duplicated under snapshot:latest for O(1) recovery.
type snapshotDB struct {
	db   *pebble.DB
	path string
}

const latestKey = "snapshot:latest"

// Open opens (or creates) the snapshot database at path and loads the
// latest snapshot into a new store. A missing or empty database yields a
// fresh workspace.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("snapshot_open_failed", "path", path, "error", err)
		return nil, err
	}
	s := New()
	s.snap = &snapshotDB{db: db, path: path}

	v, closer, err := db.Get([]byte(latestKey))
	if err == pebble.ErrNotFound {
		logger.Info("snapshot_none", "path", path)
		return s, nil
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	defer closer.Close()

	var ws models.Workspace
	if err := json.Unmarshal(v, &ws); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("corrupt snapshot: %w", err)
	}
	if ws.Sessions == nil {
		ws.Sessions = map[string]int64{}
	}
	s.ws = &ws
	s.rebuildIndex()
	logger.Info("snapshot_loaded", "path", path, "users", len(ws.Users), "channels", len(ws.Channels), "dms", len(ws.DMs))
	return s, nil
}

// Ready reports whether the store has snapshot backing.
func (s *Store) Ready() bool { return s.snap != nil }

// Close closes the snapshot database if present.
func (s *Store) Close() error {
	if s.snap == nil {
		return nil
	}
	err := s.snap.db.Close()
	s.snap = nil
	logger.Info("snapshot_db_closed")
	return err
}

// SaveSnapshot serializes the whole workspace and writes it to the
// snapshot database. Serialization happens under the store lock; the disk
// write does not. A store without snapshot backing saves nothing.
func (s *Store) SaveSnapshot() error {
	if s.snap == nil {
		return nil
	}
	s.Lock()
	data, err := json.Marshal(s.ws)
	s.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}

	key := fmt.Sprintf("snapshot:%020d", time.Now().UTC().UnixNano())
	if err := s.snap.db.Set([]byte(key), data, pebble.Sync); err != nil {
		logger.Error("snapshot_save_failed", "key", key, "error", err)
		return err
	}
	if err := s.snap.db.Set([]byte(latestKey), data, pebble.Sync); err != nil {
		logger.Error("snapshot_save_failed", "key", latestKey, "error", err)
		return err
	}
	telemetry.CountSnapshotSaved()
	logger.Info("snapshot_saved", "key", key, "bytes", len(data))
	return nil
}

// ListSnapshotKeys returns the stored snapshot keys in ascending order.
// Used by the inspect tool.
func (s *Store) ListSnapshotKeys() ([]string, error) {
	if s.snap == nil {
		return nil, fmt.Errorf("snapshot db not opened")
	}
	iter, err := s.snap.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.First(); iter.Valid(); iter.Next() {
		out = append(out, string(iter.Key()))
	}
	return out, iter.Error()
}

// LatestSnapshot returns the raw bytes of the most recent snapshot.
func (s *Store) LatestSnapshot() ([]byte, error) {
	if s.snap == nil {
		return nil, fmt.Errorf("snapshot db not opened")
	}
	v, closer, err := s.snap.db.Get([]byte(latestKey))
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}
