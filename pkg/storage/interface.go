// Package storage defines the persistence contracts for run history. Every
// discover and push execution is recorded as a SyncRun together with the
// destinations the API rejected, so earlier runs can be listed and compared.
// Backends live in sub-packages: postgres for a shared database and memory
// for single-process runs without a database.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyInTx is returned by Begin and Migrate on a transactional handle.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned by Commit and Rollback outside a transaction.
	ErrNotInTx = errors.New("not in tx")
)

// AllStorage is a composite interface that includes all domain-specific
// storage capabilities.
type AllStorage interface {
	RunStorage
}

// TxStorage describes a storage handle that operates within a transaction.
// Implementations become unusable after Commit or Rollback is called.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage describes a non-transactional storage handle with the ability to
// start transactions.
type Storage interface {
	AllStorage

	// Close releases any resources held by the storage implementation.
	Close() error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Begin starts a new transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx begins a transaction, invokes cb and then commits on success or
	// rolls back if cb returns an error.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
