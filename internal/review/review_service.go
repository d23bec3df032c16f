package review

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payclaim/internal/claim"
	claimerrors "payclaim/internal/claim/errors"
	"payclaim/internal/config"
	reviewerrors "payclaim/internal/review/errors"
	"payclaim/internal/store"
)

//go:generate mockgen -source=review_service.go -destination=mock/review_service_mock.go -package=mock
type Service interface {
	ListSubmitted(ctx context.Context, period string) ([]SubmittedClaimResponse, error)
	Open(ctx context.Context, employeeNumber, period string) (AdjustmentResponse, error)
	Update(ctx context.Context, employeeNumber, period string, req UpdateAdjustmentRequest) (AdjustmentResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	claimRepo claim.Repository
	rates     config.PayRates
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, claimRepo claim.Repository, rates config.PayRates, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	return &service{
		db:        db,
		repo:      repo,
		claimRepo: claimRepo,
		rates:     rates,
		logger:    l.Named("review_service"),
	}
}

// ListSubmitted returns the claims awaiting review for one period. Drafts are
// excluded; confirmed claims stay visible so the approver can re-open the
// read-only view.
func (s *service) ListSubmitted(ctx context.Context, period string) ([]SubmittedClaimResponse, error) {
	apps, err := s.claimRepo.FindByPeriod(ctx, period)
	if err != nil {
		s.logger.Error("failed to list claims for period", zap.String("period", period), zap.Error(err))
		return nil, err
	}

	out := make([]SubmittedClaimResponse, 0, len(apps))
	for _, app := range apps {
		if app.Status == claim.StatusDraft {
			continue
		}
		item := SubmittedClaimResponse{
			EmployeeNumber: app.EmployeeNumber,
			EmployeeName:   app.EmployeeName,
			Period:         app.Period,
			Status:         app.Status,
		}
		if app.SubmittedAt != nil {
			ts := app.SubmittedAt.Format(time.RFC3339)
			item.SubmittedAt = &ts
		}
		out = append(out, item)
	}

	return out, nil
}

// Open loads the adjustment for a submitted claim, creating it with system
// defaults on first access. The created record is persisted immediately so
// two approver tabs converge on the same starting point.
func (s *service) Open(ctx context.Context, employeeNumber, period string) (AdjustmentResponse, error) {
	app, err := s.findReviewableClaim(ctx, employeeNumber, period)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	if app.Status == claim.StatusDraft {
		return AdjustmentResponse{}, reviewerrors.ErrClaimNotSubmitted
	}

	adj, err := s.repo.Find(ctx, employeeNumber, period)
	if err == nil {
		return mapToResponse(*adj), nil
	}
	if !errors.Is(err, store.ErrRecordAbsent) {
		s.logger.Error("failed to load adjustment", zap.String("employee_number", employeeNumber), zap.Error(err))
		return AdjustmentResponse{}, err
	}

	created := s.defaultAdjustment(employeeNumber, period)
	if err := s.repo.Save(ctx, &created); err != nil {
		s.logger.Error("failed to seed adjustment", zap.String("employee_number", employeeNumber), zap.Error(err))
		return AdjustmentResponse{}, err
	}

	s.logger.Info("adjustment created with defaults",
		zap.String("employee_number", employeeNumber),
		zap.String("period", period),
	)
	return mapToResponse(created), nil
}

// Update applies a partial edit to the adjustment. Rejected outright once the
// claim is confirmed; the frozen pay decision must keep the inputs it was
// computed from.
func (s *service) Update(ctx context.Context, employeeNumber, period string, req UpdateAdjustmentRequest) (AdjustmentResponse, error) {
	app, err := s.findReviewableClaim(ctx, employeeNumber, period)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	switch app.Status {
	case claim.StatusDraft:
		return AdjustmentResponse{}, reviewerrors.ErrClaimNotSubmitted
	case claim.StatusConfirmed:
		return AdjustmentResponse{}, reviewerrors.ErrAdjustmentFrozen
	}

	if err := validateUpdate(app, req); err != nil {
		return AdjustmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	adj, err := qtx.Find(ctx, employeeNumber, period)
	if errors.Is(err, store.ErrRecordAbsent) {
		seeded := s.defaultAdjustment(employeeNumber, period)
		adj = &seeded
	} else if err != nil {
		s.logger.Error("failed to load adjustment", zap.String("employee_number", employeeNumber), zap.Error(err))
		return AdjustmentResponse{}, err
	}

	applyUpdate(adj, req)
	adj.UpdatedAt = time.Now().UTC()

	if err := qtx.Save(ctx, adj); err != nil {
		s.logger.Error("failed to save adjustment", zap.String("employee_number", employeeNumber), zap.Error(err))
		return AdjustmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AdjustmentResponse{}, err
	}

	return mapToResponse(*adj), nil
}

func (s *service) findReviewableClaim(ctx context.Context, employeeNumber, period string) (*claim.SalaryApplication, error) {
	app, err := s.claimRepo.Find(ctx, employeeNumber, period)
	if errors.Is(err, store.ErrRecordAbsent) {
		return nil, claimerrors.ErrClaimNotFound
	}
	if err != nil {
		s.logger.Error("failed to load claim", zap.String("employee_number", employeeNumber), zap.Error(err))
		return nil, err
	}
	return app, nil
}

func (s *service) defaultAdjustment(employeeNumber, period string) ReviewAdjustment {
	return ReviewAdjustment{
		SchemaVersion:      CurrentSchemaVersion,
		EmployeeNumber:     employeeNumber,
		Period:             period,
		UnitPrices:         map[string]decimal.Decimal{},
		TravelBonusPerDay:  s.rates.DefaultTravelBonus,
		FlatBonus:          decimal.Zero,
		CommissionApproved: false,
		UpdatedAt:          time.Now().UTC(),
	}
}

func validateUpdate(app *claim.SalaryApplication, req UpdateAdjustmentRequest) error {
	known := make(map[string]struct{}, len(app.LineItems))
	for _, item := range app.LineItems {
		known[item.ID.String()] = struct{}{}
	}

	for id, price := range req.UnitPrices {
		if _, ok := known[id]; !ok {
			return reviewerrors.ErrUnknownLineItem
		}
		if price < 0 {
			return reviewerrors.ErrNegativeCoefficient
		}
	}
	if req.TravelBonusPerDay != nil && *req.TravelBonusPerDay < 0 {
		return reviewerrors.ErrNegativeCoefficient
	}
	// FlatBonus is the one signed knob: deductions are expressed as a
	// negative flat adjustment.
	return nil
}

func applyUpdate(adj *ReviewAdjustment, req UpdateAdjustmentRequest) {
	for id, price := range req.UnitPrices {
		adj.UnitPrices[id] = priceFromFloat(price)
	}
	if req.TravelBonusPerDay != nil {
		adj.TravelBonusPerDay = priceFromFloat(*req.TravelBonusPerDay)
	}
	if req.FlatBonus != nil {
		adj.FlatBonus = priceFromFloat(*req.FlatBonus)
	}
	if req.CommissionApproved != nil {
		adj.CommissionApproved = *req.CommissionApproved
	}
}
