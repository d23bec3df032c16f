package store

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"payclaim/internal/shared/apperror"

	"go.uber.org/zap"
)

// retryingStore retries a failed store call exactly once before surfacing the
// failure as STORE_IO. A record miss is not a failure and is never retried.
// A write that fails twice is reported as an error, never as success.
type retryingStore struct {
	inner  Store
	logger *zap.Logger
}

func NewRetryingStore(inner Store, logger ...*zap.Logger) Store {
	l := zap.L().Named("store.retry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("store.retry")
	}
	return &retryingStore{inner: inner, logger: l}
}

func (r *retryingStore) WithTx(tx *sql.Tx) Store {
	return &retryingStore{inner: r.inner.WithTx(tx), logger: r.logger}
}

func (r *retryingStore) Get(ctx context.Context, namespace, key string) (Record, error) {
	rec, err := r.inner.Get(ctx, namespace, key)
	if err == nil || errors.Is(err, ErrRecordAbsent) {
		return rec, err
	}

	r.logger.Warn("store get failed, retrying once",
		zap.String("namespace", namespace),
		zap.String("key", key),
		zap.Error(err),
	)

	rec, err = r.inner.Get(ctx, namespace, key)
	if err == nil || errors.Is(err, ErrRecordAbsent) {
		return rec, err
	}
	return nil, wrapStoreIO(err)
}

func (r *retryingStore) Put(ctx context.Context, namespace, key string, record Record) error {
	err := r.inner.Put(ctx, namespace, key, record)
	if err == nil {
		return nil
	}

	r.logger.Warn("store put failed, retrying once",
		zap.String("namespace", namespace),
		zap.String("key", key),
		zap.Error(err),
	)

	if err := r.inner.Put(ctx, namespace, key, record); err != nil {
		return wrapStoreIO(err)
	}
	return nil
}

func (r *retryingStore) ListKeys(ctx context.Context, namespace string, predicate func(key string) bool) ([]string, error) {
	keys, err := r.inner.ListKeys(ctx, namespace, predicate)
	if err == nil {
		return keys, nil
	}

	r.logger.Warn("store list keys failed, retrying once",
		zap.String("namespace", namespace),
		zap.Error(err),
	)

	keys, err = r.inner.ListKeys(ctx, namespace, predicate)
	if err != nil {
		return nil, wrapStoreIO(err)
	}
	return keys, nil
}

func wrapStoreIO(err error) error {
	return apperror.Wrap(err, apperror.CodeStoreIO, "persistent store failure", http.StatusServiceUnavailable)
}
