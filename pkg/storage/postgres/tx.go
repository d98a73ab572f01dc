package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"riskblock/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

// Begin starts a transaction and returns a PgSQL bound to it. Nested
// transactions are not supported: calling Begin on a transactional handle
// returns storage.ErrAlreadyInTx.
func (p *PgSQL) Begin(ctx context.Context) (storage.TxStorage, error) {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return nil, storage.ErrAlreadyInTx
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin tx: %w", err)
	}

	return &PgSQL{DB: tx, Builder: goqu.NewTx(dialect, tx)}, nil
}

// Commit commits the transaction, or returns storage.ErrNotInTx.
func (p *PgSQL) Commit() error {
	tx, ok := p.DB.(*sql.Tx)
	if !ok {
		return storage.ErrNotInTx
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit tx: %w", err)
	}

	return nil
}

// Rollback aborts the transaction, or returns storage.ErrNotInTx.
func (p *PgSQL) Rollback() error {
	tx, ok := p.DB.(*sql.Tx)
	if !ok {
		return storage.ErrNotInTx
	}
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("could not rollback tx: %w", err)
	}

	return nil
}

// WithTx runs cb in a transaction, committing when it returns nil and
// rolling back otherwise.
func (p *PgSQL) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) (err error) {
	tx, err := p.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err := cb(tx); err != nil {
		return err
	}

	return tx.Commit() //nolint: wrapcheck
}
