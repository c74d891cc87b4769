package db

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	"github.com/hallyusync/concert-sync/internal/config"
	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateKeyName is the error number MySQL/MariaDB returns for
// "CREATE INDEX" on an index name that already exists — the engine has no
// "IF NOT EXISTS" form for indexes the way it does for tables, so repeat
// runs of EnsureSchema must tolerate it explicitly.
const mysqlDuplicateKeyName = 1061

// EnsureSchema creates the target database's two tables and their
// artist_keyword_id indexes if they don't already exist, mirroring the
// source project's declarative create-all-on-startup behavior rather than a
// separate migration step.
func EnsureSchema(ctx context.Context, conn *sql.DB, dialect config.Dialect) error {
	for _, stmt := range schemaStatements(dialect) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(err, apperrors.ErrInternal, "대상 데이터베이스 스키마 생성에 실패했습니다")
		}
	}
	for _, stmt := range indexStatements(dialect) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			if dialect == config.DialectMySQL && isDuplicateKeyName(err) {
				continue
			}
			return apperrors.Wrap(err, apperrors.ErrInternal, "대상 데이터베이스 인덱스 생성에 실패했습니다")
		}
	}
	return nil
}

func isDuplicateKeyName(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateKeyName
}

// indexStatements returns the artist_keyword_id index on both tables (spec
// §6's persisted schema annotates this column "idx" on each). Postgres
// supports CREATE INDEX IF NOT EXISTS; MySQL/MariaDB does not, so its
// duplicate-index error is tolerated in EnsureSchema instead.
func indexStatements(dialect config.Dialect) []string {
	if dialect == config.DialectMySQL {
		return []string{
			`CREATE INDEX idx_crawled_data_artist_keyword_id ON crawled_data (artist_keyword_id)`,
			`CREATE INDEX idx_concert_search_results_artist_keyword_id ON concert_search_results (artist_keyword_id)`,
		}
	}

	return []string{
		`CREATE INDEX IF NOT EXISTS idx_crawled_data_artist_keyword_id ON crawled_data (artist_keyword_id)`,
		`CREATE INDEX IF NOT EXISTS idx_concert_search_results_artist_keyword_id ON concert_search_results (artist_keyword_id)`,
	}
}

func schemaStatements(dialect config.Dialect) []string {
	if dialect == config.DialectMySQL {
		return []string{
			`CREATE TABLE IF NOT EXISTS crawled_data (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				artist_keyword_id BIGINT NOT NULL,
				artist_name VARCHAR(255) NOT NULL,
				source_site VARCHAR(64) NOT NULL,
				title VARCHAR(512) NOT NULL,
				venue VARCHAR(255),
				date VARCHAR(64),
				time VARCHAR(64),
				price VARCHAR(255),
				booking_url VARCHAR(1024),
				crawled_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS concert_search_results (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				artist_keyword_id BIGINT NOT NULL,
				artist_name VARCHAR(255) NOT NULL,
				concert_title VARCHAR(512) NOT NULL,
				venue VARCHAR(255),
				concert_date VARCHAR(64),
				concert_time VARCHAR(64),
				ticket_price VARCHAR(255),
				booking_date VARCHAR(64),
				booking_url VARCHAR(1024),
				source VARCHAR(64),
				confidence DOUBLE,
				data_sources VARCHAR(64),
				is_verified BOOLEAN,
				raw_response TEXT,
				synced_at DATETIME NOT NULL
			)`,
		}
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS crawled_data (
			id BIGSERIAL PRIMARY KEY,
			artist_keyword_id BIGINT NOT NULL,
			artist_name TEXT NOT NULL,
			source_site TEXT NOT NULL,
			title TEXT NOT NULL,
			venue TEXT,
			date TEXT,
			time TEXT,
			price TEXT,
			booking_url TEXT,
			crawled_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS concert_search_results (
			id BIGSERIAL PRIMARY KEY,
			artist_keyword_id BIGINT NOT NULL,
			artist_name TEXT NOT NULL,
			concert_title TEXT NOT NULL,
			venue TEXT,
			concert_date TEXT,
			concert_time TEXT,
			ticket_price TEXT,
			booking_date TEXT,
			booking_url TEXT,
			source TEXT,
			confidence DOUBLE PRECISION,
			data_sources TEXT,
			is_verified BOOLEAN,
			raw_response TEXT,
			synced_at TIMESTAMPTZ NOT NULL
		)`,
	}
}
