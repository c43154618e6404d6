package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults(t *testing.T) {
	tests := []struct {
		name  string
		in    Config
		check func(t *testing.T, out Config)
	}{
		{
			name: "sqlite gets min 1 max 16",
			in:   Config{Driver: SQLiteConfig{Filename: "test.db"}},
			check: func(t *testing.T, out Config) {
				assert.Equal(t, uint32(1), out.MinConnections)
				assert.Equal(t, uint32(16), out.MaxConnections)
			},
		},
		{
			name: "mysql gets localhost 3306 max 32",
			in:   Config{Driver: MySQLConfig{Name: "app", User: "u"}},
			check: func(t *testing.T, out Config) {
				dc := out.Driver.(MySQLConfig)
				assert.Equal(t, "localhost", dc.Host)
				assert.Equal(t, uint16(3306), dc.Port)
				assert.Equal(t, uint32(1), out.MinConnections)
				assert.Equal(t, uint32(32), out.MaxConnections)
			},
		},
		{
			name: "postgres gets localhost 5432 max 32 sslmode require",
			in:   Config{Driver: PostgresConfig{Name: "app", User: "u"}},
			check: func(t *testing.T, out Config) {
				dc := out.Driver.(PostgresConfig)
				assert.Equal(t, "localhost", dc.Host)
				assert.Equal(t, uint16(5432), dc.Port)
				assert.Equal(t, "require", dc.SSLMode)
				assert.Equal(t, uint32(32), out.MaxConnections)
			},
		},
		{
			name: "explicit sslmode survives defaulting",
			in:   Config{Driver: PostgresConfig{Name: "app", User: "u", SSLMode: "disable"}},
			check: func(t *testing.T, out Config) {
				assert.Equal(t, "disable", out.Driver.(PostgresConfig).SSLMode)
			},
		},
		{
			name: "explicit values survive defaulting",
			in: Config{
				Driver:         MySQLConfig{Name: "app", User: "u", Host: "db.internal", Port: 3307},
				MinConnections: 4,
				MaxConnections: 8,
			},
			check: func(t *testing.T, out Config) {
				dc := out.Driver.(MySQLConfig)
				assert.Equal(t, "db.internal", dc.Host)
				assert.Equal(t, uint16(3307), dc.Port)
				assert.Equal(t, uint32(4), out.MinConnections)
				assert.Equal(t, uint32(8), out.MaxConnections)
			},
		},
		{
			name: "nil driver unchanged",
			in:   Config{},
			check: func(t *testing.T, out Config) {
				assert.Nil(t, out.Driver)
				assert.Zero(t, out.MaxConnections)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.in.WithDefaults())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Driver:         SQLiteConfig{Filename: "test.db"},
		MinConnections: 1,
		MaxConnections: 16,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		in   Config
		want error
	}{
		{
			name: "nil driver",
			in:   Config{MinConnections: 1, MaxConnections: 1},
			want: ErrDriverMissing,
		},
		{
			name: "empty sqlite filename",
			in:   Config{Driver: SQLiteConfig{}, MinConnections: 1, MaxConnections: 1},
			want: ErrFilenameEmpty,
		},
		{
			name: "mysql without database name",
			in:   Config{Driver: MySQLConfig{User: "u"}, MinConnections: 1, MaxConnections: 1},
			want: ErrDatabaseNameEmpty,
		},
		{
			name: "mysql without user",
			in:   Config{Driver: MySQLConfig{Name: "app"}, MinConnections: 1, MaxConnections: 1},
			want: ErrUserEmpty,
		},
		{
			name: "postgres without user",
			in:   Config{Driver: PostgresConfig{Name: "app"}, MinConnections: 1, MaxConnections: 1},
			want: ErrUserEmpty,
		},
		{
			name: "postgres with bogus sslmode",
			in: Config{
				Driver:         PostgresConfig{Name: "app", User: "u", SSLMode: "prefer"},
				MinConnections: 1, MaxConnections: 1,
			},
			want: ErrSSLModeUnknown,
		},
		{
			name: "zero min connections",
			in:   Config{Driver: SQLiteConfig{Filename: "f"}, MaxConnections: 4},
			want: ErrMinConnsZero,
		},
		{
			name: "zero max connections",
			in:   Config{Driver: SQLiteConfig{Filename: "f"}, MinConnections: 1},
			want: ErrMaxConnsZero,
		},
		{
			name: "min above max",
			in:   Config{Driver: SQLiteConfig{Filename: "f"}, MinConnections: 9, MaxConnections: 4},
			want: ErrMinAboveMax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.in.Validate(), tt.want)
		})
	}
}

func TestDefaultedConfigAlwaysValidates(t *testing.T) {
	drivers := []DriverConfig{
		SQLiteConfig{Filename: "test.db"},
		MySQLConfig{Name: "app", User: "u", Password: "p"},
		PostgresConfig{Name: "app", User: "u", Password: "p"},
	}
	for _, d := range drivers {
		cfg := Config{Driver: d}.WithDefaults()
		assert.NoError(t, cfg.Validate(), "driver %s", d.Kind())
		assert.LessOrEqual(t, cfg.MinConnections, cfg.MaxConnections)
	}
}
