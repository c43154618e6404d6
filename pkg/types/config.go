package types

import "errors"

// DriverKind names a supported backend.
type DriverKind string

const (
	DriverSQLite   DriverKind = "sqlite"
	DriverMySQL    DriverKind = "mysql"
	DriverPostgres DriverKind = "postgres"
)

// KnownDriverKinds lists the backends Connect accepts, for enumeration.
var KnownDriverKinds = []DriverKind{DriverSQLite, DriverMySQL, DriverPostgres}

// Config validation errors.
var (
	ErrDriverMissing     = errors.New("driver configuration must not be nil")
	ErrDriverUnknown     = errors.New("unknown driver kind")
	ErrFilenameEmpty     = errors.New("sqlite filename must not be empty")
	ErrDatabaseNameEmpty = errors.New("database name must not be empty")
	ErrUserEmpty         = errors.New("database user must not be empty")
	ErrMinConnsZero      = errors.New("min_connections must be positive")
	ErrMaxConnsZero      = errors.New("max_connections must be positive")
	ErrMinAboveMax       = errors.New("min_connections must not exceed max_connections")
	ErrSSLModeUnknown    = errors.New("unknown sslmode")
	ErrUnknownValueTag   = errors.New("unknown value tag")
)

// DriverConfig is the backend-specific half of a Config. Exactly one of the
// concrete types below is used per Config.
type DriverConfig interface {
	Kind() DriverKind

	// validate checks the backend-specific required fields.
	validate() error
}

// SQLiteConfig connects to a SQLite database file. The file is created on
// first use if it does not exist.
type SQLiteConfig struct {
	Filename string
}

func (SQLiteConfig) Kind() DriverKind { return DriverSQLite }

func (c SQLiteConfig) validate() error {
	if c.Filename == "" {
		return ErrFilenameEmpty
	}
	return nil
}

// MySQLConfig connects to a MySQL server.
type MySQLConfig struct {
	Name     string
	Host     string
	Port     uint16
	User     string
	Password string
}

func (MySQLConfig) Kind() DriverKind { return DriverMySQL }

func (c MySQLConfig) validate() error {
	if c.Name == "" {
		return ErrDatabaseNameEmpty
	}
	if c.User == "" {
		return ErrUserEmpty
	}
	return nil
}

// PostgresConfig connects to a Postgres server. SSLMode must be one of the
// values the Postgres driver accepts: disable, require, verify-ca or
// verify-full. It defaults to require.
type PostgresConfig struct {
	Name     string
	Host     string
	Port     uint16
	User     string
	Password string
	SSLMode  string
}

func (PostgresConfig) Kind() DriverKind { return DriverPostgres }

// knownSSLModes is the set the lib/pq driver accepts.
var knownSSLModes = map[string]bool{
	"disable":     true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

func (c PostgresConfig) validate() error {
	if c.Name == "" {
		return ErrDatabaseNameEmpty
	}
	if c.User == "" {
		return ErrUserEmpty
	}
	if !knownSSLModes[c.SSLMode] {
		return ErrSSLModeUnknown
	}
	return nil
}

// Config describes one logical database handle: which backend to use and how
// to size its connection pool. Immutable once a pool has been built from it.
type Config struct {
	Driver         DriverConfig
	MinConnections uint32
	MaxConnections uint32
}

// poolDefaults holds the per-driver defaulting policy applied by
// WithDefaults. One table keyed by driver kind instead of per-driver
// ad hoc defaulting.
type poolDefaults struct {
	minConns uint32
	maxConns uint32
	host     string
	port     uint16
	sslMode  string
}

var defaultsByDriver = map[DriverKind]poolDefaults{
	DriverSQLite:   {minConns: 1, maxConns: 16},
	DriverMySQL:    {minConns: 1, maxConns: 32, host: "localhost", port: 3306},
	DriverPostgres: {minConns: 1, maxConns: 32, host: "localhost", port: 5432, sslMode: "require"},
}

// WithDefaults returns a copy of c with zero-valued fields replaced by the
// driver's defaults. Unknown or missing drivers are returned unchanged;
// Validate rejects them.
func (c Config) WithDefaults() Config {
	if c.Driver == nil {
		return c
	}
	d, ok := defaultsByDriver[c.Driver.Kind()]
	if !ok {
		return c
	}
	if c.MinConnections == 0 {
		c.MinConnections = d.minConns
	}
	if c.MaxConnections == 0 {
		c.MaxConnections = d.maxConns
	}
	switch dc := c.Driver.(type) {
	case MySQLConfig:
		if dc.Host == "" {
			dc.Host = d.host
		}
		if dc.Port == 0 {
			dc.Port = d.port
		}
		c.Driver = dc
	case PostgresConfig:
		if dc.Host == "" {
			dc.Host = d.host
		}
		if dc.Port == 0 {
			dc.Port = d.port
		}
		if dc.SSLMode == "" {
			dc.SSLMode = d.sslMode
		}
		c.Driver = dc
	}
	return c
}

// Validate checks that the Config is well-formed, returning a sentinel error
// from this package on failure. Callers normally apply WithDefaults first;
// Validate does not default.
func (c Config) Validate() error {
	if c.Driver == nil {
		return ErrDriverMissing
	}
	if _, ok := defaultsByDriver[c.Driver.Kind()]; !ok {
		return ErrDriverUnknown
	}
	if err := c.Driver.validate(); err != nil {
		return err
	}
	if c.MinConnections == 0 {
		return ErrMinConnsZero
	}
	if c.MaxConnections == 0 {
		return ErrMaxConnsZero
	}
	if c.MinConnections > c.MaxConnections {
		return ErrMinAboveMax
	}
	return nil
}
