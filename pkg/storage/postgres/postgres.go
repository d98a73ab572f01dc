// Package postgres stores run history in PostgreSQL. Queries are built with
// goqu over a database/sql handle that wraps a pgx pool, and the schema is
// managed with goose.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"riskblock/pkg/storage"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	// MigrationsDir is the directory inside the migrations filesystem holding the goose files.
	MigrationsDir = "migrations"

	dialect = "postgres"
)

// Options defines the connection and pool settings.
type Options struct {
	Username string
	Password string
	Host     string
	Port     int
	Database string
	// SslMode is passed as sslmode, e.g. "disable" or "require".
	SslMode string

	// Pool limits; zero keeps the pgxpool default.
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	MaxOpenConnections int
	MaxIdleConnections int
}

// DSN returns the connection URL. Credentials are escaped so passwords may
// contain any character.
func (o Options) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.Username, o.Password),
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:   "/" + o.Database,
	}
	if o.SslMode != "" {
		u.RawQuery = url.Values{"sslmode": {o.SslMode}}.Encode()
	}

	return u.String()
}

// DB is the part of database/sql used here. *sql.DB and *sql.Tx both
// satisfy it, so the same queries run inside and outside transactions.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Builder is the part of goqu used to build queries, implemented by both
// *goqu.Database and *goqu.TxDatabase.
type Builder interface {
	From(table ...any) *goqu.SelectDataset
	Insert(table any) *goqu.InsertDataset
	Update(table any) *goqu.UpdateDataset
}

// PgSQL implements storage.Storage. Outside a transaction DB is a *sql.DB
// and Pool is set; inside one DB is a *sql.Tx and Pool is nil.
type PgSQL struct {
	DB      DB
	Builder Builder
	Pool    *pgxpool.Pool
}

var _ storage.Storage = (*PgSQL)(nil)

// New connects to PostgreSQL and verifies the connection with a ping, so a
// misconfigured history database fails a command before any API call.
func New(ctx context.Context, options Options) (*PgSQL, error) {
	cfg, err := pgxpool.ParseConfig(options.DSN())
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if options.MaxOpenConnections > 0 {
		cfg.MaxConns = int32(options.MaxOpenConnections) //nolint: gosec
	}
	if options.MaxIdleConnections > 0 {
		cfg.MinConns = int32(options.MaxIdleConnections) //nolint: gosec
	}
	if options.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = options.ConnMaxLifetime
	}
	if options.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = options.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("could not ping pgsql: %w", err)
	}

	// goqu and goose work on database/sql
	sqlDB := stdlib.OpenDBFromPool(pool)

	return &PgSQL{
		DB:      sqlDB,
		Builder: goqu.Dialect(dialect).DB(sqlDB),
		Pool:    pool,
	}, nil
}

// Close closes the database/sql wrapper and the pool behind it.
func (p *PgSQL) Close() error {
	var err error
	if db, ok := p.DB.(*sql.DB); ok {
		err = db.Close()
	}
	if p.Pool != nil {
		p.Pool.Close()
	}

	return err //nolint: wrapcheck
}

// Ping checks that the database is reachable.
func (p *PgSQL) Ping(ctx context.Context) error {
	if p.Pool == nil {
		return storage.ErrAlreadyInTx
	}
	if err := p.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("could not ping pgsql: %w", err)
	}

	return nil
}

// Migrate applies every pending goose migration found under MigrationsDir
// in fsys. goose keeps its settings in package state, so concurrent calls
// are not supported.
func (p *PgSQL) Migrate(ctx context.Context, fsys fs.FS) error {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return storage.ErrAlreadyInTx
	}

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("could not set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, MigrationsDir); err != nil {
		return fmt.Errorf("could not migrate pgsql: %w", err)
	}

	return nil
}
