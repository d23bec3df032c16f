package claim

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	claimerrors "payclaim/internal/claim/errors"
	"payclaim/internal/employee"
	employeeerrors "payclaim/internal/employee/errors"
	"payclaim/internal/messaging/kafka"
	payrollerrors "payclaim/internal/payroll/errors"
	"payclaim/internal/store"
)

type fakeRepo struct {
	findFn         func(ctx context.Context, employeeNumber, period string) (*SalaryApplication, error)
	saveFn         func(ctx context.Context, app *SalaryApplication) error
	findByPeriodFn func(ctx context.Context, period string) ([]SalaryApplication, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Find(ctx context.Context, employeeNumber, period string) (*SalaryApplication, error) {
	return f.findFn(ctx, employeeNumber, period)
}
func (f *fakeRepo) Save(ctx context.Context, app *SalaryApplication) error {
	return f.saveFn(ctx, app)
}
func (f *fakeRepo) FindByPeriod(ctx context.Context, period string) ([]SalaryApplication, error) {
	return f.findByPeriodFn(ctx, period)
}

type fakeEmployeeRepo struct {
	findByNumberFn func(ctx context.Context, employeeNumber string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) FindByNumber(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
	return f.findByNumberFn(ctx, employeeNumber)
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) Delete(ctx context.Context, id string) error            { return nil }

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func rosterWith(number, name string) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		findByNumberFn: func(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
			if employeeNumber != number {
				return nil, gorm.ErrRecordNotFound
			}
			return &employee.Employee{EmployeeNumber: number, FullName: name, IsActive: true}, nil
		},
	}
}

// memoryClaimRepo keeps one claim per key, mimicking the store's
// last-write-wins behaviour.
func memoryClaimRepo() (*fakeRepo, map[string]*SalaryApplication) {
	records := map[string]*SalaryApplication{}
	repo := &fakeRepo{}
	repo.findFn = func(ctx context.Context, employeeNumber, period string) (*SalaryApplication, error) {
		app, ok := records[store.Key(employeeNumber, period)]
		if !ok {
			return nil, store.ErrRecordAbsent
		}
		clone := *app
		return &clone, nil
	}
	repo.saveFn = func(ctx context.Context, app *SalaryApplication) error {
		clone := *app
		records[store.Key(app.EmployeeNumber, app.Period)] = &clone
		return nil
	}
	repo.findByPeriodFn = func(ctx context.Context, period string) ([]SalaryApplication, error) {
		return nil, nil
	}
	return repo, records
}

func TestService_SaveDraft_CreatesFromRoster(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := memoryClaimRepo()
	svc := NewService(db, repo, rosterWith("EMP-000001", "张三"))

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.SaveDraft(context.Background(), "EMP-000001", "2025-07", SaveDraftRequest{
		LegalWorkdays:  22,
		ActualWorkdays: 20,
		RemoteHours:    8,
		LineItems: []LineItemRequest{
			{Label: "外呼", Quantity: 120},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, resp.Status)
	assert.Equal(t, "张三", resp.EmployeeName)
	assert.Equal(t, 20.0, resp.ActualWorkdays)
	assert.Len(t, resp.LineItems, 1)
	assert.NotEmpty(t, resp.LineItems[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SaveDraft_UnknownEmployee(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, _ := memoryClaimRepo()
	svc := NewService(db, repo, rosterWith("EMP-000001", "张三"))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.SaveDraft(context.Background(), "EMP-999999", "2025-07", SaveDraftRequest{})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SubmitRevokeRoundTrip(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, records := memoryClaimRepo()
	svc := NewService(db, repo, rosterWith("EMP-000001", "张三"))
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.SaveDraft(ctx, "EMP-000001", "2025-07", SaveDraftRequest{
		LegalWorkdays:  22,
		ActualWorkdays: 22,
		TravelDays:     2,
	})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	submitted, err := svc.Submit(ctx, "EMP-000001", "2025-07")
	assert.NoError(t, err)
	assert.Equal(t, StatusSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)

	mock.ExpectBegin()
	mock.ExpectCommit()
	revoked, err := svc.Revoke(ctx, "EMP-000001", "2025-07")
	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, revoked.Status)
	assert.Nil(t, revoked.SubmittedAt)

	// Revoke only reverts the status; the entered fields survive.
	stored := records[store.Key("EMP-000001", "2025-07")]
	assert.Equal(t, 22.0, stored.ActualWorkdays)
	assert.Equal(t, 2.0, stored.TravelDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Confirm_WritesOutboxEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, records := memoryClaimRepo()
	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, rosterWith("EMP-000001", "张三"), outbox)
	ctx := context.Background()

	records[store.Key("EMP-000001", "2025-07")] = &SalaryApplication{
		SchemaVersion:  CurrentSchemaVersion,
		EmployeeNumber: "EMP-000001",
		EmployeeName:   "张三",
		Period:         "2025-07",
		LegalWorkdays:  22,
		ActualWorkdays: 21,
		Status:         StatusSubmitted,
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Confirm(ctx, "EMP-000001", "2025-07")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, resp.Status)
	assert.NotNil(t, resp.ConfirmedAt)

	assert.Len(t, outbox.created, 1)
	assert.Equal(t, "claim_confirmed", outbox.created[0].EventType)
	assert.Equal(t, "EMP-000001_2025-07", outbox.created[0].AggregateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Confirm_RequiresComputableBreakdown(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, records := memoryClaimRepo()
	svc := NewService(db, repo, rosterWith("EMP-000001", "张三"))
	ctx := context.Background()

	seed := func(app SalaryApplication) {
		app.SchemaVersion = CurrentSchemaVersion
		app.EmployeeNumber = "EMP-000001"
		app.Period = "2025-07"
		app.Status = StatusSubmitted
		records[store.Key("EMP-000001", "2025-07")] = &app
	}

	t.Run("zero legal workdays", func(t *testing.T) {
		seed(SalaryApplication{LegalWorkdays: 0, ActualWorkdays: 20})
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Confirm(ctx, "EMP-000001", "2025-07")
		assert.ErrorIs(t, err, payrollerrors.ErrDivisionByZero)
		// The claim stays revocable instead of freezing without an amount.
		assert.Equal(t, StatusSubmitted, records[store.Key("EMP-000001", "2025-07")].Status)
	})

	t.Run("negative remote hours", func(t *testing.T) {
		seed(SalaryApplication{LegalWorkdays: 22, ActualWorkdays: 20, RemoteHours: -1})
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Confirm(ctx, "EMP-000001", "2025-07")
		assert.ErrorIs(t, err, payrollerrors.ErrNegativeInput)
		assert.Equal(t, StatusSubmitted, records[store.Key("EMP-000001", "2025-07")].Status)
	})

	t.Run("day counts past the calendar month", func(t *testing.T) {
		seed(SalaryApplication{LegalWorkdays: 22, ActualWorkdays: 32})
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Confirm(ctx, "EMP-000001", "2025-07")
		assert.ErrorIs(t, err, payrollerrors.ErrCalendarOverflow)
		assert.Equal(t, StatusSubmitted, records[store.Key("EMP-000001", "2025-07")].Status)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_StatusGuards(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, records := memoryClaimRepo()
	svc := NewService(db, repo, rosterWith("EMP-000001", "张三"))
	ctx := context.Background()

	seed := func(status string) {
		records[store.Key("EMP-000001", "2025-07")] = &SalaryApplication{
			SchemaVersion:  CurrentSchemaVersion,
			EmployeeNumber: "EMP-000001",
			Period:         "2025-07",
			Status:         status,
		}
	}

	t.Run("save draft on submitted claim", func(t *testing.T) {
		seed(StatusSubmitted)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.SaveDraft(ctx, "EMP-000001", "2025-07", SaveDraftRequest{})
		assert.ErrorIs(t, err, claimerrors.ErrClaimNotEditable)
	})

	t.Run("save draft on confirmed claim", func(t *testing.T) {
		seed(StatusConfirmed)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.SaveDraft(ctx, "EMP-000001", "2025-07", SaveDraftRequest{})
		assert.ErrorIs(t, err, claimerrors.ErrClaimImmutable)
	})

	t.Run("confirm a draft", func(t *testing.T) {
		seed(StatusDraft)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Confirm(ctx, "EMP-000001", "2025-07")
		assert.ErrorIs(t, err, claimerrors.ErrInvalidTransition)
	})

	t.Run("submit twice", func(t *testing.T) {
		seed(StatusSubmitted)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Submit(ctx, "EMP-000001", "2025-07")
		assert.ErrorIs(t, err, claimerrors.ErrInvalidTransition)
	})

	t.Run("revoke a confirmed claim", func(t *testing.T) {
		seed(StatusConfirmed)
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := svc.Revoke(ctx, "EMP-000001", "2025-07")
		assert.ErrorIs(t, err, claimerrors.ErrInvalidTransition)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SaveDraft_KeepsKnownLineItemIDs(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, records := memoryClaimRepo()
	svc := NewService(db, repo, rosterWith("EMP-000001", "张三"))
	ctx := context.Background()

	keptID := uuid.New()
	records[store.Key("EMP-000001", "2025-07")] = &SalaryApplication{
		SchemaVersion:  CurrentSchemaVersion,
		EmployeeNumber: "EMP-000001",
		Period:         "2025-07",
		Status:         StatusDraft,
		LineItems: []LineItem{
			{ID: keptID, Label: "外呼", Quantity: 100},
		},
	}

	forgedID := uuid.NewString()
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.SaveDraft(ctx, "EMP-000001", "2025-07", SaveDraftRequest{
		LineItems: []LineItemRequest{
			{ID: keptID.String(), Label: "外呼", Quantity: 150},
			{ID: forgedID, Label: "质检", Quantity: 40}, // ID not on the claim
			{Label: "培训", Quantity: 3},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, resp.LineItems, 3)
	assert.Equal(t, keptID.String(), resp.LineItems[0].ID)
	assert.Equal(t, 150.0, resp.LineItems[0].Quantity)
	assert.NotEqual(t, forgedID, resp.LineItems[1].ID)
	assert.NotEmpty(t, resp.LineItems[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_KeyValidation(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, _ := memoryClaimRepo()
	svc := NewService(db, repo, rosterWith("EMP-000001", "张三"))

	_, err := svc.LoadOrCreate(context.Background(), "", "2025-07")
	assert.ErrorIs(t, err, claimerrors.ErrInvalidEmployeeNumber)

	_, err = svc.LoadOrCreate(context.Background(), "EMP-000001", "2025-7")
	assert.ErrorIs(t, err, claimerrors.ErrInvalidPeriodFormat)

	_, err = svc.LoadOrCreate(context.Background(), "EMP-000001", "july")
	assert.ErrorIs(t, err, claimerrors.ErrInvalidPeriodFormat)
}
