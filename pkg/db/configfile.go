package db

import (
	"context"
	"errors"

	"github.com/spf13/viper"

	"github.com/dukaforge/sqlbridge/pkg/dberr"
	"github.com/dukaforge/sqlbridge/pkg/types"
)

// fileDatabase mirrors the `database` section of a config file. Keys are
// matched case-insensitively, so both snake_case and PascalCase files work.
type fileDatabase struct {
	Driver         string `mapstructure:"driver"`
	Filename       string `mapstructure:"filename"`
	Name           string `mapstructure:"name"`
	Host           string `mapstructure:"host"`
	Port           uint16 `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"sslmode"`
	MinConnections uint32 `mapstructure:"min_connections"`
	MaxConnections uint32 `mapstructure:"max_connections"`
}

// ConnectFromConfig reads a structured config file (format chosen by file
// extension: .toml, .yaml, ...) containing one `database` section and
// connects with it. Options override file values, which override driver
// defaults. Any file problem fails before a connection is attempted:
// malformed syntax or missing required keys classify as programming errors,
// an unreadable file as operational.
func ConnectFromConfig(ctx context.Context, path string, opts ...Option) (*Database, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return nil, dberr.Wrap(dberr.KindProgramming, err, "malformed config file "+path)
		}
		return nil, dberr.Wrap(dberr.KindOperational, err, "read config file "+path)
	}

	if !v.IsSet("database") {
		return nil, dberr.Newf(dberr.KindProgramming, "config file %s has no database section", path)
	}
	var fc fileDatabase
	if err := v.UnmarshalKey("database", &fc); err != nil {
		return nil, dberr.Wrap(dberr.KindProgramming, err, "invalid database section in "+path)
	}

	cfg, err := fc.toConfig(applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return Connect(ctx, cfg)
}

// toConfig builds a Config from the file section plus option overrides and
// validates it, so misconfiguration surfaces here rather than at connect
// time.
func (fc fileDatabase) toConfig(o connectOptions) (types.Config, error) {
	host, port := fc.Host, fc.Port
	if o.host != "" {
		host = o.host
	}
	if o.port != 0 {
		port = o.port
	}
	sslMode := fc.SSLMode
	if o.sslMode != "" {
		sslMode = o.sslMode
	}

	var driver types.DriverConfig
	switch types.DriverKind(fc.Driver) {
	case types.DriverSQLite:
		driver = types.SQLiteConfig{Filename: fc.Filename}
	case types.DriverMySQL:
		driver = types.MySQLConfig{
			Name: fc.Name, Host: host, Port: port,
			User: fc.User, Password: fc.Password,
		}
	case types.DriverPostgres:
		driver = types.PostgresConfig{
			Name: fc.Name, Host: host, Port: port,
			User: fc.User, Password: fc.Password,
			SSLMode: sslMode,
		}
	case "":
		return types.Config{}, dberr.New(dberr.KindProgramming, "database section is missing the driver key")
	default:
		return types.Config{}, dberr.Newf(dberr.KindProgramming, "unknown driver %q in config file", fc.Driver)
	}

	cfg := types.Config{
		Driver:         driver,
		MinConnections: fc.MinConnections,
		MaxConnections: fc.MaxConnections,
	}
	if o.minConns != 0 {
		cfg.MinConnections = o.minConns
	}
	if o.maxConns != 0 {
		cfg.MaxConnections = o.maxConns
	}

	if err := cfg.WithDefaults().Validate(); err != nil {
		return types.Config{}, dberr.Wrap(dberr.KindProgramming, err, "")
	}
	return cfg, nil
}
