package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Namespaces mirror the record map names of the original deployment so that
// exported data stays interchangeable with it.
const (
	NamespaceClaims  = "salary_form_data_map"
	NamespaceReviews = "salary_review_data_map"
)

// ErrRecordAbsent reports a Get miss. Callers that treat absence as a normal
// outcome (implicit drafts, lazy adjustment creation) check for it with
// errors.Is.
var ErrRecordAbsent = errors.New("store: record absent")

// Record is the serialized JSON body of a claim or adjustment.
type Record []byte

// Key builds the composite record key shared by claims and their review
// adjustments: "{employeeNumber}_{period}" with period as YYYY-MM.
func Key(employeeNumber, period string) string {
	return fmt.Sprintf("%s_%s", employeeNumber, period)
}

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock
type Store interface {
	WithTx(tx *sql.Tx) Store
	Get(ctx context.Context, namespace, key string) (Record, error)
	Put(ctx context.Context, namespace, key string, record Record) error
	ListKeys(ctx context.Context, namespace string, predicate func(key string) bool) ([]string, error)
}

type sqlStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSQLStore returns the postgres-backed record store. Writes are
// whole-record overwrites: the last writer wins, there is no per-field
// locking or version token.
func NewSQLStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) WithTx(tx *sql.Tx) Store {
	return &sqlStore{db: s.db, tx: tx}
}

func (s *sqlStore) Get(ctx context.Context, namespace, key string) (Record, error) {
	query := `SELECT value FROM kv_records WHERE namespace = $1 AND key = $2`

	var value []byte
	err := s.querier().QueryRowContext(ctx, query, namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordAbsent
	}
	if err != nil {
		return nil, err
	}
	return Record(value), nil
}

func (s *sqlStore) Put(ctx context.Context, namespace, key string, record Record) error {
	query := `
        INSERT INTO kv_records (namespace, key, value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (namespace, key) DO UPDATE
        SET value = EXCLUDED.value, updated_at = NOW()
    `

	_, err := s.execer().ExecContext(ctx, query, namespace, key, []byte(record))
	return err
}

func (s *sqlStore) ListKeys(ctx context.Context, namespace string, predicate func(key string) bool) ([]string, error) {
	query := `SELECT key FROM kv_records WHERE namespace = $1 ORDER BY key ASC`

	rows, err := s.querier().QueryContext(ctx, query, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		if predicate == nil || predicate(key) {
			keys = append(keys, key)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}

func (s *sqlStore) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *sqlStore) querier() interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}
