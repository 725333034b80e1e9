// Package checkpoint implements a resume ledger for long corpus passes: a
// small bbolt database recording, per input file, how many lines have
// already been consumed, so a killed or interrupted run can pick back up
// without reprocessing from scratch.
package checkpoint

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketName = []byte("ProcessedLines")

// Store wraps a bbolt database mapping input file path to lines-consumed
// count.
type Store struct {
	db *bbolt.DB
}

// Open creates or opens the checkpoint database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0o644, nil)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: opening %s: %w", dbPath, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("checkpoint: initializing %s: %w", dbPath, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// LinesDone returns how many lines of path have already been consumed in a
// prior run (0 if path has no recorded progress).
func (s *Store) LinesDone(path string) (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(path))
		if v == nil {
			return nil
		}
		n = int(binary.BigEndian.Uint64(v))
		return nil
	})
	return n, err
}

// MarkLine records that path has had n lines consumed so far. Called
// periodically (not per line) by the driver loop to bound fsync overhead.
func (s *Store) MarkLine(path string, n int) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(n))
		return tx.Bucket(bucketName).Put([]byte(path), buf)
	})
}
