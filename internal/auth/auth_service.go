package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "payclaim/internal/auth/errors"
	"payclaim/internal/config"
	"payclaim/internal/employee"
	"payclaim/internal/middleware"
)

const tokenTTL = 12 * time.Hour

// approverActorID is the fixed subject for the single shared approver login.
const approverActorID = "approver"

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	LoginEmployee(ctx context.Context, req EmployeeLoginRequest) (LoginResponse, error)
	LoginApprover(ctx context.Context, req ApproverLoginRequest) (LoginResponse, error)
	Me(ctx context.Context, actorID, role, employeeNumber string) (MeResponse, error)
}

type service struct {
	repo   employee.Repository
	cfg    config.Config
	logger *zap.Logger
}

func NewService(repo employee.Repository, cfg config.Config, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	return &service{
		repo:   repo,
		cfg:    cfg,
		logger: l.Named("auth_service"),
	}
}

func (s *service) LoginEmployee(ctx context.Context, req EmployeeLoginRequest) (LoginResponse, error) {
	empl, err := s.repo.FindByNumber(ctx, req.EmployeeNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Same error as a wrong password, so login probing cannot
		// enumerate roster numbers.
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("failed to load employee for login", zap.Error(err))
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(empl.CredentialHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if !empl.IsActive {
		return LoginResponse{}, autherrors.ErrAccountDisabled
	}

	token, err := s.generateToken(empl.ID.String(), middleware.RoleEmployee, empl.EmployeeNumber)
	if err != nil {
		s.logger.Error("failed to sign employee token", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGeneration
	}

	s.logger.Info("employee logged in", zap.String("employee_number", empl.EmployeeNumber))
	return LoginResponse{
		AccessToken:    token,
		TokenType:      "Bearer",
		ExpiresIn:      int64(tokenTTL.Seconds()),
		Role:           middleware.RoleEmployee,
		EmployeeNumber: empl.EmployeeNumber,
	}, nil
}

// LoginApprover checks the shared passphrase against the bcrypt hash from
// configuration. There is exactly one approver identity in this deployment.
func (s *service) LoginApprover(_ context.Context, req ApproverLoginRequest) (LoginResponse, error) {
	if s.cfg.ApproverPassHash == "" {
		s.logger.Error("approver passphrase hash is not configured")
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.ApproverPassHash), []byte(req.Passphrase)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(approverActorID, middleware.RoleApprover, "")
	if err != nil {
		s.logger.Error("failed to sign approver token", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGeneration
	}

	s.logger.Info("approver logged in")
	return LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(tokenTTL.Seconds()),
		Role:        middleware.RoleApprover,
	}, nil
}

func (s *service) Me(ctx context.Context, actorID, role, employeeNumber string) (MeResponse, error) {
	resp := MeResponse{
		ActorID:        actorID,
		Role:           role,
		EmployeeNumber: employeeNumber,
	}
	if role != middleware.RoleEmployee {
		return resp, nil
	}

	empl, err := s.repo.FindByNumber(ctx, employeeNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MeResponse{}, autherrors.ErrInvalidToken
	}
	if err != nil {
		s.logger.Error("failed to load employee profile", zap.Error(err))
		return resp, err
	}

	resp.FullName = empl.FullName
	return resp, nil
}

func (s *service) generateToken(actorID, role, employeeNumber string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"actor_id":        actorID,
		"role":            role,
		"employee_number": employeeNumber,
		"iat":             now.Unix(),
		"exp":             now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
