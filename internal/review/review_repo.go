package review

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/shopspring/decimal"

	"payclaim/internal/store"
)

//go:generate mockgen -source=review_repo.go -destination=mock/review_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Find(ctx context.Context, employeeNumber, period string) (*ReviewAdjustment, error)
	Save(ctx context.Context, adj *ReviewAdjustment) error
}

type repository struct {
	store store.Store
}

func NewRepository(s store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{store: r.store.WithTx(tx)}
}

// Find returns store.ErrRecordAbsent when no adjustment exists yet; the
// service creates one lazily with system defaults.
func (r *repository) Find(ctx context.Context, employeeNumber, period string) (*ReviewAdjustment, error) {
	raw, err := r.store.Get(ctx, store.NamespaceReviews, store.Key(employeeNumber, period))
	if err != nil {
		return nil, err
	}

	var adj ReviewAdjustment
	if err := json.Unmarshal(raw, &adj); err != nil {
		return nil, err
	}
	if adj.UnitPrices == nil {
		adj.UnitPrices = map[string]decimal.Decimal{}
	}
	return &adj, nil
}

func (r *repository) Save(ctx context.Context, adj *ReviewAdjustment) error {
	adj.SchemaVersion = CurrentSchemaVersion

	raw, err := json.Marshal(adj)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.NamespaceReviews, store.Key(adj.EmployeeNumber, adj.Period), raw)
}
