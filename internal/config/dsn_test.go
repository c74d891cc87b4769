package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDatabaseURL(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		dialect Dialect
		wantErr bool
	}{
		{"postgres scheme", "postgres://u:p@h/db", DialectPostgres, false},
		{"postgresql scheme", "postgresql://u:p@h/db", DialectPostgres, false},
		{"mysql scheme", "mysql://u:p@h/db", DialectMySQL, false},
		{"mariadb scheme", "mariadb://u:p@h/db", DialectMySQL, false},
		{"jdbc prefix stripped", "jdbc:postgresql://u:p@h/db", DialectPostgres, false},
		{"unsupported scheme", "sqlite://local.db", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dialect, normalized, err := NormalizeDatabaseURL(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.dialect, dialect)
			assert.NotContains(t, normalized, "jdbc:")
		})
	}
}
