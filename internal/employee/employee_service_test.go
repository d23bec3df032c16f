package employee

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	employeeerrors "payclaim/internal/employee/errors"
)

type fakeRepo struct {
	created  []*Employee
	byNumber map[string]*Employee
	createFn func(ctx context.Context, e *Employee) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	f.created = append(f.created, e)
	return nil
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Employee, error) { return nil, nil }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) FindByNumber(ctx context.Context, employeeNumber string) (*Employee, error) {
	e, ok := f.byNumber[employeeNumber]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}
func (f *fakeRepo) Update(ctx context.Context, e *Employee) error { return nil }
func (f *fakeRepo) Delete(ctx context.Context, id string) error   { return nil }

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func TestService_Create_GeneratesNumberAndHashesCredential(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	svc := NewService(db, repo, &fakeCounter{next: 6}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:   "张三",
		Credential: "secret-pw",
	})

	assert.NoError(t, err)
	assert.Equal(t, "EMP-000007", resp.EmployeeNumber)
	assert.True(t, resp.IsActive)

	assert.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.NotEqual(t, "secret-pw", stored.CredentialHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.CredentialHash), []byte("secret-pw")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_WeakCredential(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, nil)

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:   "张三",
		Credential: "short",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrWeakCredential)
}

func TestService_Create_DuplicateNumber(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, e *Employee) error {
			return errors.New(`ERROR: duplicate key value violates unique constraint "uq_employee_number" (SQLSTATE 23505)`)
		},
	}
	svc := NewService(db, repo, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		EmployeeNumber: "EMP-000001",
		FullName:       "张三",
		Credential:     "secret-pw",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNumberAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
