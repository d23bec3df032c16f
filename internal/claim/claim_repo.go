package claim

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"payclaim/internal/store"
)

//go:generate mockgen -source=claim_repo.go -destination=mock/claim_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Find(ctx context.Context, employeeNumber, period string) (*SalaryApplication, error)
	Save(ctx context.Context, app *SalaryApplication) error
	FindByPeriod(ctx context.Context, period string) ([]SalaryApplication, error)
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

// Find returns store.ErrRecordAbsent when no record exists yet; the workflow
// treats that as an implicit zero-valued draft, not an error.
func (r *repository) Find(ctx context.Context, employeeNumber, period string) (*SalaryApplication, error) {
	raw, err := r.store.Get(ctx, store.NamespaceClaims, store.Key(employeeNumber, period))
	if err != nil {
		return nil, err
	}
	return DecodeApplication(raw)
}

func (r *repository) Save(ctx context.Context, app *SalaryApplication) error {
	app.SchemaVersion = CurrentSchemaVersion

	raw, err := json.Marshal(app)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.NamespaceClaims, store.Key(app.EmployeeNumber, app.Period), raw)
}

func (r *repository) FindByPeriod(ctx context.Context, period string) ([]SalaryApplication, error) {
	keys, err := r.store.ListKeys(ctx, store.NamespaceClaims, func(key string) bool {
		return strings.HasSuffix(key, "_"+period)
	})
	if err != nil {
		return nil, err
	}

	apps := make([]SalaryApplication, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, store.NamespaceClaims, key)
		if err != nil {
			return nil, err
		}
		app, err := DecodeApplication(raw)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}

	return apps, nil
}
