package config

import (
	"strings"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
)

// Dialect identifies which database/sql driver a connection string resolves
// to.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// NormalizeDatabaseURL strips an optional "jdbc:" prefix and classifies the
// remaining URL's scheme into one of the two dialects this module supports,
// per spec §6: "jdbc: prefix (stripped) and bare mysql://, mariadb://,
// postgresql://, postgres:// schemes (driver suffixes appended
// automatically)". It returns the dialect and the URL with the jdbc prefix
// removed — driver-specific DSN translation happens in internal/db.
func NormalizeDatabaseURL(raw string) (Dialect, string, error) {
	url := strings.TrimPrefix(raw, "jdbc:")

	switch {
	case strings.HasPrefix(url, "postgresql://"), strings.HasPrefix(url, "postgres://"):
		return DialectPostgres, url, nil
	case strings.HasPrefix(url, "mysql://"), strings.HasPrefix(url, "mariadb://"):
		return DialectMySQL, url, nil
	default:
		return "", "", apperrors.Newf(apperrors.ErrInvalidInput, "지원하지 않는 데이터베이스 URL 스킴입니다: %q", raw)
	}
}
