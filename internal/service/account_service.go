package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/answerly/answerly-api/internal/dto"
	"github.com/answerly/answerly-api/internal/models"
	"github.com/answerly/answerly-api/internal/repository"
)

var (
	// ErrDuplicateAccount indicates an account already exists for the (email, role) pair.
	ErrDuplicateAccount = errors.New("account with this email and role already exists")
	// ErrInvalidCredentials is returned for any login failure. It is
	// deliberately identical for unknown accounts and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountNotFound indicates no account exists for the given id.
	ErrAccountNotFound = errors.New("account not found")
)

// AccountService covers registration, login, profile updates and roster listing.
type AccountService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AccountResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Update(ctx context.Context, id string, payload dto.UpdateAccountRequest) (dto.AccountResponse, error)
	ListStudents(ctx context.Context) ([]dto.StudentResponse, error)
}

type accountService struct {
	repo      repository.AccountRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	jwtSecret string
	tokenTTL  time.Duration
	newID     func() string
	now       func() time.Time
}

// NewAccountService constructs the account service.
func NewAccountService(repo repository.AccountRepository, validate *validator.Validate, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &accountService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "account_service").Logger(),
		tracer:    otel.Tracer("github.com/answerly/answerly-api/internal/service/account"),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func (s *accountService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AccountResponse, error) {
	ctx, span := s.tracer.Start(ctx, "account.register", trace.WithAttributes(
		attribute.String("account.role", payload.Role),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.AccountResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	existing, err := s.repo.GetByEmailRole(ctx, email, payload.Role)
	if err == nil && existing.ID != "" {
		span.RecordError(ErrDuplicateAccount)
		span.SetStatus(codes.Error, "duplicate account")
		return dto.AccountResponse{}, ErrDuplicateAccount
	}
	if err != nil && !errors.Is(err, repository.ErrAccountMissing) {
		// Existence check faults do not block registration; the put below
		// is last-write-wins on the composite key anyway.
		s.logger.Warn().Err(err).Str("email", email).Msg("existence check failed, continuing with registration")
	}

	account := models.Account{
		ID:           s.newID(),
		Name:         strings.TrimSpace(s.sanitizer.Sanitize(payload.Name)),
		Email:        email,
		Role:         payload.Role,
		PasswordHash: hashPassword(payload.Password),
		ClassName:    strings.TrimSpace(s.sanitizer.Sanitize(payload.ClassName)),
		RollNo:       strings.TrimSpace(payload.RollNo),
	}

	if err := s.repo.Put(ctx, account); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.AccountResponse{}, err
	}

	span.SetAttributes(attribute.String("account.id", account.ID))
	s.logger.Info().Str("account_id", account.ID).Str("role", account.Role).Msg("account registered")

	return dto.NewAccountResponse(account), nil
}

func (s *accountService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	ctx, span := s.tracer.Start(ctx, "account.login", trace.WithAttributes(
		attribute.String("account.role", payload.Role),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.LoginResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	account, err := s.repo.GetByEmailRole(ctx, email, payload.Role)
	if err != nil {
		if !errors.Is(err, repository.ErrAccountMissing) {
			s.logger.Error().Err(err).Msg("account lookup failed")
		}
		span.SetStatus(codes.Error, "invalid credentials")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if account.PasswordHash != hashPassword(payload.Password) {
		span.SetStatus(codes.Error, "invalid credentials")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(account)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issuance failed")
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		User:  dto.NewAccountResponse(account),
		Token: token,
	}, nil
}

func (s *accountService) Update(ctx context.Context, id string, payload dto.UpdateAccountRequest) (dto.AccountResponse, error) {
	ctx, span := s.tracer.Start(ctx, "account.update", trace.WithAttributes(
		attribute.String("account.id", id),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.AccountResponse{}, err
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountMissing) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "account not found")
			return dto.AccountResponse{}, ErrAccountNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "account lookup failed")
		return dto.AccountResponse{}, err
	}

	// Merge partial fields. Email and role form the table key and always
	// keep their stored values.
	if payload.Name != nil {
		account.Name = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Name))
	}
	if payload.Password != nil {
		account.PasswordHash = hashPassword(*payload.Password)
	}
	if payload.ClassName != nil {
		account.ClassName = strings.TrimSpace(s.sanitizer.Sanitize(*payload.ClassName))
	}
	if payload.RollNo != nil {
		account.RollNo = strings.TrimSpace(*payload.RollNo)
	}

	if err := s.repo.Put(ctx, account); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.AccountResponse{}, err
	}

	return dto.NewAccountResponse(account), nil
}

func (s *accountService) ListStudents(ctx context.Context) ([]dto.StudentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "account.list_students")
	defer span.End()

	accounts, err := s.repo.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing failed")
		return nil, err
	}

	students := make([]dto.StudentResponse, 0, len(accounts))
	for _, account := range accounts {
		students = append(students, dto.NewStudentResponse(account))
	}

	return students, nil
}

func (s *accountService) issueToken(account models.Account) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"role":  account.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func hashPassword(password string) string {
	digest := sha256.Sum256([]byte(password))
	return hex.EncodeToString(digest[:])
}
