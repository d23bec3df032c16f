package review

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"payclaim/internal/claim"
	claimerrors "payclaim/internal/claim/errors"
	"payclaim/internal/config"
	reviewerrors "payclaim/internal/review/errors"
	"payclaim/internal/store"
)

type fakeAdjRepo struct {
	records map[string]*ReviewAdjustment
}

func (f *fakeAdjRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeAdjRepo) Find(ctx context.Context, employeeNumber, period string) (*ReviewAdjustment, error) {
	adj, ok := f.records[store.Key(employeeNumber, period)]
	if !ok {
		return nil, store.ErrRecordAbsent
	}
	clone := *adj
	return &clone, nil
}
func (f *fakeAdjRepo) Save(ctx context.Context, adj *ReviewAdjustment) error {
	if f.records == nil {
		f.records = map[string]*ReviewAdjustment{}
	}
	clone := *adj
	f.records[store.Key(adj.EmployeeNumber, adj.Period)] = &clone
	return nil
}

type fakeClaimRepo struct {
	apps map[string]claim.SalaryApplication
}

func (f *fakeClaimRepo) WithTx(tx *sql.Tx) claim.Repository { return f }
func (f *fakeClaimRepo) Find(ctx context.Context, employeeNumber, period string) (*claim.SalaryApplication, error) {
	app, ok := f.apps[store.Key(employeeNumber, period)]
	if !ok {
		return nil, store.ErrRecordAbsent
	}
	return &app, nil
}
func (f *fakeClaimRepo) Save(ctx context.Context, app *claim.SalaryApplication) error { return nil }
func (f *fakeClaimRepo) FindByPeriod(ctx context.Context, period string) ([]claim.SalaryApplication, error) {
	var out []claim.SalaryApplication
	for _, app := range f.apps {
		if app.Period == period {
			out = append(out, app)
		}
	}
	return out, nil
}

func testRates() config.PayRates {
	return config.PayRates{
		CommissionBonus:    decimal.NewFromInt(500),
		DefaultUnitPrice:   decimal.Zero,
		DefaultTravelBonus: decimal.NewFromInt(30),
	}
}

func submittedClaim(itemIDs ...uuid.UUID) claim.SalaryApplication {
	items := make([]claim.LineItem, len(itemIDs))
	for i, id := range itemIDs {
		items[i] = claim.LineItem{ID: id, Label: "外呼", Quantity: 10}
	}
	return claim.SalaryApplication{
		EmployeeNumber: "EMP-000001",
		EmployeeName:   "张三",
		Period:         "2025-07",
		LineItems:      items,
		Status:         claim.StatusSubmitted,
	}
}

func TestService_Open_SeedsDefaultsOnce(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	adjRepo := &fakeAdjRepo{}
	claims := &fakeClaimRepo{apps: map[string]claim.SalaryApplication{
		"EMP-000001_2025-07": submittedClaim(),
	}}
	svc := NewService(db, adjRepo, claims, testRates())
	ctx := context.Background()

	resp, err := svc.Open(ctx, "EMP-000001", "2025-07")
	assert.NoError(t, err)
	assert.Equal(t, "30.00", resp.TravelBonusPerDay)
	assert.Equal(t, "0.00", resp.FlatBonus)
	assert.False(t, resp.CommissionApproved)
	assert.Empty(t, resp.UnitPrices)

	// Second open returns the stored record, not a fresh seed.
	seeded := adjRepo.records["EMP-000001_2025-07"]
	seeded.CommissionApproved = true
	again, err := svc.Open(ctx, "EMP-000001", "2025-07")
	assert.NoError(t, err)
	assert.True(t, again.CommissionApproved)
}

func TestService_Open_Guards(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	claims := &fakeClaimRepo{apps: map[string]claim.SalaryApplication{
		"EMP-000002_2025-07": {
			EmployeeNumber: "EMP-000002", Period: "2025-07", Status: claim.StatusDraft,
		},
	}}
	svc := NewService(db, &fakeAdjRepo{}, claims, testRates())
	ctx := context.Background()

	_, err := svc.Open(ctx, "EMP-000009", "2025-07")
	assert.ErrorIs(t, err, claimerrors.ErrClaimNotFound)

	_, err = svc.Open(ctx, "EMP-000002", "2025-07")
	assert.ErrorIs(t, err, reviewerrors.ErrClaimNotSubmitted)
}

func TestService_Update_FieldByField(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	itemID := uuid.New()
	adjRepo := &fakeAdjRepo{}
	claims := &fakeClaimRepo{apps: map[string]claim.SalaryApplication{
		"EMP-000001_2025-07": submittedClaim(itemID),
	}}
	svc := NewService(db, adjRepo, claims, testRates())
	ctx := context.Background()

	price := 2.5
	approved := true
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(ctx, "EMP-000001", "2025-07", UpdateAdjustmentRequest{
		UnitPrices:         map[string]float64{itemID.String(): price},
		CommissionApproved: &approved,
	})
	assert.NoError(t, err)
	assert.Equal(t, "2.50", resp.UnitPrices[itemID.String()])
	assert.True(t, resp.CommissionApproved)
	// Untouched fields keep their seeded defaults.
	assert.Equal(t, "30.00", resp.TravelBonusPerDay)

	bonus := -150.0
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.Update(ctx, "EMP-000001", "2025-07", UpdateAdjustmentRequest{
		FlatBonus: &bonus,
	})
	assert.NoError(t, err)
	assert.Equal(t, "-150.00", resp.FlatBonus)
	assert.Equal(t, "2.50", resp.UnitPrices[itemID.String()], "earlier edits survive")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_Validation(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	itemID := uuid.New()
	claims := &fakeClaimRepo{apps: map[string]claim.SalaryApplication{
		"EMP-000001_2025-07": submittedClaim(itemID),
	}}
	svc := NewService(db, &fakeAdjRepo{}, claims, testRates())
	ctx := context.Background()

	_, err := svc.Update(ctx, "EMP-000001", "2025-07", UpdateAdjustmentRequest{
		UnitPrices: map[string]float64{uuid.NewString(): 2},
	})
	assert.ErrorIs(t, err, reviewerrors.ErrUnknownLineItem)

	_, err = svc.Update(ctx, "EMP-000001", "2025-07", UpdateAdjustmentRequest{
		UnitPrices: map[string]float64{itemID.String(): -2},
	})
	assert.ErrorIs(t, err, reviewerrors.ErrNegativeCoefficient)

	negTravel := -10.0
	_, err = svc.Update(ctx, "EMP-000001", "2025-07", UpdateAdjustmentRequest{
		TravelBonusPerDay: &negTravel,
	})
	assert.ErrorIs(t, err, reviewerrors.ErrNegativeCoefficient)
}

func TestService_Update_FrozenAfterConfirmation(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	claims := &fakeClaimRepo{apps: map[string]claim.SalaryApplication{
		"EMP-000001_2025-07": {
			EmployeeNumber: "EMP-000001", Period: "2025-07", Status: claim.StatusConfirmed,
		},
	}}
	svc := NewService(db, &fakeAdjRepo{}, claims, testRates())

	approved := true
	_, err := svc.Update(context.Background(), "EMP-000001", "2025-07", UpdateAdjustmentRequest{
		CommissionApproved: &approved,
	})
	assert.ErrorIs(t, err, reviewerrors.ErrAdjustmentFrozen)
}

func TestService_ListSubmitted_ExcludesDrafts(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	claims := &fakeClaimRepo{apps: map[string]claim.SalaryApplication{
		"EMP-000001_2025-07": {EmployeeNumber: "EMP-000001", Period: "2025-07", Status: claim.StatusSubmitted},
		"EMP-000002_2025-07": {EmployeeNumber: "EMP-000002", Period: "2025-07", Status: claim.StatusDraft},
		"EMP-000003_2025-07": {EmployeeNumber: "EMP-000003", Period: "2025-07", Status: claim.StatusConfirmed},
	}}
	svc := NewService(db, &fakeAdjRepo{}, claims, testRates())

	out, err := svc.ListSubmitted(context.Background(), "2025-07")
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	for _, row := range out {
		assert.NotEqual(t, claim.StatusDraft, row.Status)
	}
}
