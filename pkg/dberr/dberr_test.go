package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyAncestry(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		matches []*Error
		misses  []*Error
	}{
		{
			name:    "integrity is database is error",
			err:     New(KindIntegrity, "duplicate key"),
			matches: []*Error{Integrity, Database, Err},
			misses:  []*Error{Warning, Interface, Operational, Data},
		},
		{
			name:    "interface is error but not database",
			err:     New(KindInterface, "closed handle"),
			matches: []*Error{Interface, Err},
			misses:  []*Error{Database, Warning},
		},
		{
			name:    "warning is not an error subtype",
			err:     New(KindWarning, "truncated"),
			matches: []*Error{Warning},
			misses:  []*Error{Err, Database},
		},
		{
			name:    "generic database matches only itself and root",
			err:     New(KindDatabase, "unknown backend failure"),
			matches: []*Error{Database, Err},
			misses:  []*Error{Data, Operational, Integrity, Internal, Programming, NotSupported},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range tt.matches {
				assert.ErrorIs(t, tt.err, target, "should match %v", target.Kind)
			}
			for _, target := range tt.misses {
				assert.NotErrorIs(t, tt.err, target, "should not match %v", target.Kind)
			}
		})
	}
}

func TestEveryKindMatchesExactlyOneLeaf(t *testing.T) {
	leaves := []*Error{Warning, Interface, Data, Operational, Integrity, Internal, Programming, NotSupported}
	for _, leaf := range leaves {
		err := New(leaf.Kind, "x")
		count := 0
		for _, target := range leaves {
			if errors.Is(err, target) {
				count++
			}
		}
		assert.Equal(t, 1, count, "kind %v", leaf.Kind)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(KindOperational, cause, "")

	require.ErrorIs(t, err, Operational)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Equal(t, "operational error: connection refused", err.Error())
}

func TestWrapExplicitMessage(t *testing.T) {
	cause := errors.New("ERROR 1062: duplicate entry")
	err := Wrap(KindIntegrity, cause, "insert failed")
	assert.Equal(t, "integrity error: insert failed", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestNewf(t *testing.T) {
	err := Newf(KindProgramming, "no table %q", "users")
	assert.Equal(t, `programming error: no table "users"`, err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestErrorsAsFindsClassified(t *testing.T) {
	wrapped := fmt.Errorf("query failed: %w", New(KindData, "bad cast"))

	var derr *Error
	require.ErrorAs(t, wrapped, &derr)
	assert.Equal(t, KindData, derr.Kind)
	assert.ErrorIs(t, wrapped, Database)
}
