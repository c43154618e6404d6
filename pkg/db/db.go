package db

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/dukaforge/sqlbridge/internal/dialect"
	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

// pool is the shared state behind one or more Database handles. The last
// handle to close tears it down.
type pool struct {
	sql  *sql.DB
	refs atomic.Int32
}

// Database is a handle on a pooled connection to one backend. All query
// operations go through it. Handles created by Clone share the pool; the
// pool is released when the last handle is closed.
//
// Close drains rather than aborts: in-flight operations run to completion
// on their checked-out connections, which are then discarded instead of
// returned to the pool.
type Database struct {
	pool    *pool
	dialect dialect.Dialect
	config  types.Config
	closed  atomic.Bool
}

// connectOptions collects the optional parameters of the per-driver connect
// entry points.
type connectOptions struct {
	host     string
	port     uint16
	sslMode  string
	minConns uint32
	maxConns uint32
}

// Option adjusts an optional connection parameter.
type Option func(*connectOptions)

// WithHost overrides the server host (MySQL and Postgres only).
func WithHost(host string) Option {
	return func(o *connectOptions) { o.host = host }
}

// WithPort overrides the server port (MySQL and Postgres only).
func WithPort(port uint16) Option {
	return func(o *connectOptions) { o.port = port }
}

// WithSSLMode overrides the TLS mode (Postgres only). Accepted values are
// disable, require, verify-ca and verify-full; the default is require.
func WithSSLMode(mode string) Option {
	return func(o *connectOptions) { o.sslMode = mode }
}

// WithMinConnections overrides the minimum pool size.
func WithMinConnections(n uint32) Option {
	return func(o *connectOptions) { o.minConns = n }
}

// WithMaxConnections overrides the maximum pool size.
func WithMaxConnections(n uint32) Option {
	return func(o *connectOptions) { o.maxConns = n }
}

func applyOptions(opts []Option) connectOptions {
	var o connectOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ConnectSQLite opens a SQLite database file, creating it if absent.
func ConnectSQLite(ctx context.Context, filename string, opts ...Option) (*Database, error) {
	o := applyOptions(opts)
	return Connect(ctx, types.Config{
		Driver:         types.SQLiteConfig{Filename: filename},
		MinConnections: o.minConns,
		MaxConnections: o.maxConns,
	})
}

// ConnectMySQL connects to a MySQL server. Host and port default to
// localhost:3306 unless overridden.
func ConnectMySQL(ctx context.Context, name, user, password string, opts ...Option) (*Database, error) {
	o := applyOptions(opts)
	return Connect(ctx, types.Config{
		Driver: types.MySQLConfig{
			Name:     name,
			Host:     o.host,
			Port:     o.port,
			User:     user,
			Password: password,
		},
		MinConnections: o.minConns,
		MaxConnections: o.maxConns,
	})
}

// ConnectPostgres connects to a Postgres server. Host and port default to
// localhost:5432 unless overridden.
func ConnectPostgres(ctx context.Context, name, user, password string, opts ...Option) (*Database, error) {
	o := applyOptions(opts)
	return Connect(ctx, types.Config{
		Driver: types.PostgresConfig{
			Name:     name,
			Host:     o.host,
			Port:     o.port,
			User:     user,
			Password: password,
			SSLMode:  o.sslMode,
		},
		MinConnections: o.minConns,
		MaxConnections: o.maxConns,
	})
}

// Connect builds a pool from cfg and returns the handle that owns it.
// Construction is atomic: MinConnections connections are established and
// verified before Connect returns, and any failure tears everything down
// and returns a classified error with no partial pool left behind.
func Connect(ctx context.Context, cfg types.Config) (*Database, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, dberr.Wrap(dberr.KindInterface, err, "")
	}

	dia, err := dialect.For(cfg.Driver.Kind())
	if err != nil {
		return nil, err
	}
	dsn, err := dia.DSN(cfg.Driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(dia.DriverName(), dsn)
	if err != nil {
		return nil, dia.Classify(err)
	}
	sqlDB.SetMaxOpenConns(int(cfg.MaxConnections))
	sqlDB.SetMaxIdleConns(int(cfg.MaxConnections))

	// Warm the pool: hold MinConnections live connections simultaneously,
	// verify each, then return them all to the idle pool.
	warm := make([]*sql.Conn, 0, cfg.MinConnections)
	release := func() {
		for _, c := range warm {
			c.Close()
		}
	}
	for i := uint32(0); i < cfg.MinConnections; i++ {
		conn, err := sqlDB.Conn(ctx)
		if err == nil {
			err = conn.PingContext(ctx)
			if err != nil {
				conn.Close()
			}
		}
		if err != nil {
			release()
			sqlDB.Close()
			return nil, dia.Classify(err)
		}
		warm = append(warm, conn)
	}
	release()

	p := &pool{sql: sqlDB}
	p.refs.Store(1)
	return &Database{pool: p, dialect: dia, config: cfg}, nil
}

// Config returns the defaulted configuration the pool was built from.
func (d *Database) Config() types.Config {
	return d.config
}

// Clone returns a new handle sharing this handle's pool. The pool is torn
// down only when every handle has been closed.
func (d *Database) Clone() (*Database, error) {
	if d.closed.Load() {
		return nil, errClosed()
	}
	// The refcount may only grow from a live state. Incrementing from zero
	// would resurrect a pool that a concurrent Close is tearing down.
	for {
		n := d.pool.refs.Load()
		if n <= 0 {
			return nil, errClosed()
		}
		if d.pool.refs.CompareAndSwap(n, n+1) {
			return &Database{pool: d.pool, dialect: d.dialect, config: d.config}, nil
		}
	}
}

// Close releases this handle. When it is the last handle on the pool, the
// pool itself is closed: idle connections are released immediately and
// in-flight operations finish before their connections are discarded.
// Closing an already-closed handle is an interface error.
func (d *Database) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return errClosed()
	}
	if d.pool.refs.Add(-1) > 0 {
		return nil
	}
	if err := d.pool.sql.Close(); err != nil {
		return d.dialect.Classify(err)
	}
	return nil
}

// Ping verifies that the backend is reachable on a pooled connection.
func (d *Database) Ping(ctx context.Context) error {
	return d.withConn(ctx, func(conn *sql.Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return d.dialect.Classify(err)
		}
		return nil
	})
}

// withConn checks out exactly one pooled connection, runs fn on it, and
// returns the connection on every path. Acquisition failures are classified
// and surfaced to this operation only.
func (d *Database) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	if d.closed.Load() {
		return errClosed()
	}
	conn, err := d.pool.sql.Conn(ctx)
	if err != nil {
		return d.dialect.Classify(err)
	}
	defer conn.Close()
	return fn(conn)
}

func errClosed() *dberr.Error {
	return dberr.New(dberr.KindInterface, "database handle is closed")
}
