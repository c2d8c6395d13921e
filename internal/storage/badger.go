// Package storage is the local stand-in for the remote backend: a small
// row store with equality filters and upsert, persisted in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// sessionKey holds the single current session record.
const sessionKey = "session:current"

// tableKey returns the key holding a table's serialized rows.
// Format: table:{name}
func tableKey(name string) []byte {
	return []byte("table:" + name)
}

// Engine owns the BadgerDB instance behind every mock table.
type Engine struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// Open creates the engine, opening the database at dbPath.
func Open(dbPath string, logger logrus.FieldLogger) (*Engine, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.WithField("path", dbPath).Info("BadgerDB opened")

	return &Engine{
		db:  db,
		log: logger.WithField("component", "storage"),
	}, nil
}

// Close closes the BadgerDB database.
func (e *Engine) Close() error {
	e.log.Info("Closing BadgerDB...")
	if err := e.db.Close(); err != nil {
		e.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	return nil
}

// getJSON decodes the value at key into v. It reports false when the key is absent.
func getJSON(txn *badger.Txn, key []byte, v any) (bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
	if err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return txn.SetEntry(badger.NewEntry(key, b))
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
