package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"payclaim/internal/claim"
	claimerrors "payclaim/internal/claim/errors"
	"payclaim/internal/config"
	"payclaim/internal/review"
	"payclaim/internal/store"
)

const summaryCacheTTL = 10 * time.Minute

// SummaryCacheKey is the Redis key for one period's settlement summary. The
// confirmation consumer deletes it whenever a claim in that period is
// confirmed; adjustments freeze at confirmation, so that is the only event
// that can change a confirmed total.
func SummaryCacheKey(period string) string {
	return fmt.Sprintf("payroll:summary:%s", period)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	GetSummary(ctx context.Context, period string) (SummaryResponse, error)
	ExportCSV(ctx context.Context, period string) ([]byte, string, error)
	Preview(ctx context.Context, employeeNumber, period string) (BreakdownResponse, error)
}

type service struct {
	claimRepo  claim.Repository
	reviewRepo review.Repository
	rates      config.PayRates
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(claimRepo claim.Repository, reviewRepo review.Repository, rates config.PayRates, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	return &service{
		claimRepo:  claimRepo,
		reviewRepo: reviewRepo,
		rates:      rates,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     l.Named("payroll_service"),
	}
}

// GetSummary rolls up every confirmed claim for the period. Cached in Redis
// with a singleflight guard so a burst of dashboard loads computes once.
func (s *service) GetSummary(ctx context.Context, period string) (SummaryResponse, error) {
	cacheKey := SummaryCacheKey(period)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp SummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		summary, _, err := s.computeSummary(ctx, period)
		if err != nil {
			return nil, err
		}

		rows := make([]BreakdownResponse, len(summary.Rows))
		for i, row := range summary.Rows {
			rows[i] = mapToResponse(row)
		}
		resp := SummaryResponse{
			Period:       summary.Period,
			Count:        summary.Count,
			TotalPayable: summary.TotalPayable.StringFixed(2),
			Rows:         rows,
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, summaryCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return SummaryResponse{}, err
	}

	return v.(SummaryResponse), nil
}

// ExportCSV renders the settlement file for the period. Always computed
// fresh: an exported file is handed to payroll, so it must reflect the store,
// not the cache.
func (s *service) ExportCSV(ctx context.Context, period string) ([]byte, string, error) {
	summary, apps, err := s.computeSummary(ctx, period)
	if err != nil {
		return nil, "", err
	}

	byNumber := make(map[string]claim.SalaryApplication, len(apps))
	for _, app := range apps {
		byNumber[app.EmployeeNumber] = app
	}

	rows := make([]ExportRow, 0, len(summary.Rows))
	for _, b := range summary.Rows {
		app := byNumber[b.EmployeeNumber]
		rows = append(rows, ExportRow{
			EmployeeNumber: app.EmployeeNumber,
			EmployeeName:   app.EmployeeName,
			Period:         app.Period,
			LegalWorkdays:  app.LegalWorkdays,
			ActualWorkdays: app.ActualWorkdays,
			RemoteHours:    app.RemoteHours,
			TravelDays:     app.TravelDays,
			Total:          b.Total,
		})
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		s.logger.Error("failed to render settlement csv", zap.String("period", period), zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("salary-%s.csv", period)
	return buf.Bytes(), filename, nil
}

// Preview computes the caller's own breakdown at whatever state the claim is
// in, using defaults for anything the approver has not priced yet. Employees
// see live totals while drafting without any write happening.
func (s *service) Preview(ctx context.Context, employeeNumber, period string) (BreakdownResponse, error) {
	app, err := s.claimRepo.Find(ctx, employeeNumber, period)
	if errors.Is(err, store.ErrRecordAbsent) {
		return BreakdownResponse{}, claimerrors.ErrClaimNotFound
	}
	if err != nil {
		s.logger.Error("failed to load claim for preview", zap.String("employee_number", employeeNumber), zap.Error(err))
		return BreakdownResponse{}, err
	}

	adj, err := s.findAdjustment(ctx, employeeNumber, period)
	if err != nil {
		return BreakdownResponse{}, err
	}

	breakdown, err := Compute(app, adj, s.rates)
	if err != nil {
		return BreakdownResponse{}, err
	}

	return mapToResponse(breakdown), nil
}

// computeSummary returns both the aggregate and the confirmed claims it was
// built from, so the CSV export can echo the claimed quantities without a
// second round of store reads.
func (s *service) computeSummary(ctx context.Context, period string) (Summary, []claim.SalaryApplication, error) {
	apps, err := s.claimRepo.FindByPeriod(ctx, period)
	if err != nil {
		s.logger.Error("failed to list claims for summary", zap.String("period", period), zap.Error(err))
		return Summary{}, nil, err
	}

	confirmed := make([]claim.SalaryApplication, 0, len(apps))
	breakdowns := make([]Breakdown, 0, len(apps))
	for i := range apps {
		app := apps[i]
		if app.Status != claim.StatusConfirmed {
			continue
		}

		adj, err := s.findAdjustment(ctx, app.EmployeeNumber, period)
		if err != nil {
			return Summary{}, nil, err
		}

		b, err := Compute(&app, adj, s.rates)
		if err != nil {
			s.logger.Error("confirmed claim failed to compute",
				zap.String("employee_number", app.EmployeeNumber),
				zap.String("period", period),
				zap.Error(err),
			)
			return Summary{}, nil, err
		}

		confirmed = append(confirmed, app)
		breakdowns = append(breakdowns, b)
	}

	return Aggregate(period, breakdowns), confirmed, nil
}

func (s *service) findAdjustment(ctx context.Context, employeeNumber, period string) (*review.ReviewAdjustment, error) {
	adj, err := s.reviewRepo.Find(ctx, employeeNumber, period)
	if errors.Is(err, store.ErrRecordAbsent) {
		// Never reviewed: the resolver treats nil as all-defaults.
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to load adjustment for payroll", zap.String("employee_number", employeeNumber), zap.Error(err))
		return nil, err
	}
	return adj, nil
}
