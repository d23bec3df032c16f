package claim

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	claimerrors "payclaim/internal/claim/errors"
	"payclaim/internal/employee"
	employeeerrors "payclaim/internal/employee/errors"
	"payclaim/internal/events"
	"payclaim/internal/messaging/kafka"
	"payclaim/internal/shared/contextutil"
	"payclaim/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=claim_service.go -destination=mock/claim_service_mock.go -package=mock
type Service interface {
	LoadOrCreate(ctx context.Context, employeeNumber, period string) (ClaimResponse, error)
	SaveDraft(ctx context.Context, employeeNumber, period string, req SaveDraftRequest) (ClaimResponse, error)
	Submit(ctx context.Context, employeeNumber, period string) (ClaimResponse, error)
	Revoke(ctx context.Context, employeeNumber, period string) (ClaimResponse, error)
	Confirm(ctx context.Context, employeeNumber, period string) (ClaimResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, employees, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("claim.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("claim.service")
	}
	return &service{db: db, repo: repo, employees: employees, outbox: outboxRepo, logger: l}
}

// LoadOrCreate returns the stored claim, or a zero-valued draft when nothing
// has been saved yet. A claim always has an implicit draft; nothing is
// persisted until the first save.
func (s *service) LoadOrCreate(ctx context.Context, employeeNumber, period string) (ClaimResponse, error) {
	if err := validateClaimKey(employeeNumber, period); err != nil {
		return ClaimResponse{}, err
	}

	app, err := s.loadOrImplicitDraft(ctx, s.repo, employeeNumber, period)
	if err != nil {
		return ClaimResponse{}, err
	}

	return mapToResponse(*app), nil
}

func (s *service) SaveDraft(ctx context.Context, employeeNumber, period string, req SaveDraftRequest) (ClaimResponse, error) {
	s.logger.Debug("save draft requested",
		zap.String("employee_number", employeeNumber),
		zap.String("period", period),
	)

	if err := validateClaimKey(employeeNumber, period); err != nil {
		return ClaimResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("save draft begin tx failed", zap.Error(err))
		return ClaimResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app, err := s.loadOrImplicitDraft(ctx, qtx, employeeNumber, period)
	if err != nil {
		return ClaimResponse{}, err
	}

	switch app.Status {
	case StatusConfirmed:
		return ClaimResponse{}, claimerrors.ErrClaimImmutable
	case StatusSubmitted:
		return ClaimResponse{}, claimerrors.ErrClaimNotEditable
	}

	app.LegalWorkdays = req.LegalWorkdays
	app.ActualWorkdays = req.ActualWorkdays
	app.RemoteHours = req.RemoteHours
	app.TravelDays = req.TravelDays
	app.LineItems = applyLineItems(app.LineItems, req.LineItems)

	if err := qtx.Save(ctx, app); err != nil {
		s.logger.Error("save draft persist failed",
			zap.String("employee_number", employeeNumber),
			zap.String("period", period),
			zap.Error(err),
		)
		return ClaimResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("save draft commit failed", zap.Error(err))
		return ClaimResponse{}, err
	}

	s.logger.Info("save draft success",
		zap.String("employee_number", employeeNumber),
		zap.String("period", period),
	)
	return mapToResponse(*app), nil
}

func (s *service) Submit(ctx context.Context, employeeNumber, period string) (ClaimResponse, error) {
	return s.transitionStatus(ctx, employeeNumber, period, StatusSubmitted)
}

func (s *service) Revoke(ctx context.Context, employeeNumber, period string) (ClaimResponse, error) {
	return s.transitionStatus(ctx, employeeNumber, period, StatusDraft)
}

func (s *service) Confirm(ctx context.Context, employeeNumber, period string) (ClaimResponse, error) {
	return s.transitionStatus(ctx, employeeNumber, period, StatusConfirmed)
}

func (s *service) transitionStatus(ctx context.Context, employeeNumber, period, targetStatus string) (ClaimResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("transition claim status requested",
		zap.String("request_id", rid),
		zap.String("employee_number", employeeNumber),
		zap.String("period", period),
		zap.String("target_status", targetStatus),
	)

	if err := validateClaimKey(employeeNumber, period); err != nil {
		return ClaimResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition claim status begin tx failed", zap.Error(err))
		return ClaimResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	app, err := s.loadOrImplicitDraft(ctx, qtx, employeeNumber, period)
	if err != nil {
		return ClaimResponse{}, err
	}

	if !isAllowedStatusTransition(app.Status, targetStatus) {
		s.logger.Warn("transition claim status invalid",
			zap.String("employee_number", employeeNumber),
			zap.String("period", period),
			zap.String("from_status", app.Status),
			zap.String("to_status", targetStatus),
		)
		return ClaimResponse{}, claimerrors.ErrInvalidTransition
	}

	// Confirmation freezes the official payable amount; a claim whose
	// breakdown cannot be computed must not reach the terminal state.
	if targetStatus == StatusConfirmed {
		if err := app.ValidatePayable(); err != nil {
			s.logger.Warn("confirm claim rejected, breakdown not computable",
				zap.String("employee_number", employeeNumber),
				zap.String("period", period),
				zap.Error(err),
			)
			return ClaimResponse{}, err
		}
	}

	now := time.Now().UTC()
	app.Status = targetStatus
	switch targetStatus {
	case StatusSubmitted:
		app.SubmittedAt = &now
	case StatusDraft:
		// Revoke keeps every submitted field intact, only the status reverts.
		app.SubmittedAt = nil
	case StatusConfirmed:
		app.ConfirmedAt = &now
	}

	if err := qtx.Save(ctx, app); err != nil {
		s.logger.Error("transition claim status persist failed",
			zap.String("employee_number", employeeNumber),
			zap.String("period", period),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return ClaimResponse{}, err
	}

	if targetStatus == StatusConfirmed && s.outbox != nil {
		if err := s.enqueueConfirmedEvent(ctx, tx, rid, app); err != nil {
			s.logger.Error("confirm claim outbox persist failed",
				zap.String("employee_number", employeeNumber),
				zap.String("period", period),
				zap.Error(err),
			)
			return ClaimResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition claim status commit failed", zap.Error(err))
		return ClaimResponse{}, err
	}

	s.logger.Info("transition claim status success",
		zap.String("request_id", rid),
		zap.String("employee_number", employeeNumber),
		zap.String("period", period),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*app), nil
}

func (s *service) enqueueConfirmedEvent(ctx context.Context, tx *sql.Tx, rid string, app *SalaryApplication) error {
	event := events.ClaimConfirmedEvent{
		EventType:      "claim_confirmed",
		RequestID:      rid,
		EmployeeNumber: app.EmployeeNumber,
		Period:         app.Period,
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "salary_claim",
		AggregateID:   store.Key(app.EmployeeNumber, app.Period),
		EventType:     event.EventType,
		Topic:         events.ClaimConfirmedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) loadOrImplicitDraft(ctx context.Context, repo Repository, employeeNumber, period string) (*SalaryApplication, error) {
	app, err := repo.Find(ctx, employeeNumber, period)
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, store.ErrRecordAbsent) {
		return nil, err
	}

	empl, err := s.employees.FindByNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	return &SalaryApplication{
		SchemaVersion:  CurrentSchemaVersion,
		EmployeeNumber: empl.EmployeeNumber,
		EmployeeName:   empl.FullName,
		Period:         period,
		LineItems:      []LineItem{},
		Status:         StatusDraft,
	}, nil
}

// applyLineItems merges the incoming items while keeping stable IDs: items
// echoing a known ID keep it, everything else gets a fresh one.
func applyLineItems(existing []LineItem, reqs []LineItemRequest) []LineItem {
	known := make(map[uuid.UUID]bool, len(existing))
	for _, item := range existing {
		known[item.ID] = true
	}

	items := make([]LineItem, 0, len(reqs))
	for _, req := range reqs {
		id, err := uuid.Parse(req.ID)
		if err != nil || !known[id] {
			id = uuid.New()
		}
		items = append(items, LineItem{
			ID:       id,
			Label:    req.Label,
			Quantity: req.Quantity,
			Note:     req.Note,
		})
	}
	return items
}

func validateClaimKey(employeeNumber, period string) error {
	if employeeNumber == "" {
		return claimerrors.ErrInvalidEmployeeNumber
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return claimerrors.ErrInvalidPeriodFormat
	}
	return nil
}
