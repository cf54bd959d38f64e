package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/answerly/answerly-api/internal/dto"
	"github.com/answerly/answerly-api/internal/models"
	"github.com/answerly/answerly-api/internal/repository"
)

type accountStoreStub struct {
	accounts map[string]models.Account
	getErr   error
	putErr   error
}

func newAccountStoreStub() *accountStoreStub {
	return &accountStoreStub{accounts: make(map[string]models.Account)}
}

func (s *accountStoreStub) GetByEmailRole(_ context.Context, email, role string) (models.Account, error) {
	if s.getErr != nil {
		return models.Account{}, s.getErr
	}
	account, ok := s.accounts[email+"|"+role]
	if !ok {
		return models.Account{}, repository.ErrAccountMissing
	}
	return account, nil
}

func (s *accountStoreStub) Put(_ context.Context, account models.Account) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.accounts[account.Email+"|"+account.Role] = account
	return nil
}

func (s *accountStoreStub) GetByID(_ context.Context, id string) (models.Account, error) {
	for _, account := range s.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountMissing
}

func (s *accountStoreStub) ListByRole(_ context.Context, role string) ([]models.Account, error) {
	matches := make([]models.Account, 0)
	for _, account := range s.accounts {
		if account.Role == role {
			matches = append(matches, account)
		}
	}
	return matches, nil
}

func newTestAccountService(store repository.AccountRepository) AccountService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAccountService(store, validate, "test-secret", time.Hour, testLogger())
}

func studentPayload() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:      "Asha Verma",
		Email:     "Asha@Example.Com",
		Password:  "s3cret-pass",
		Role:      models.RoleStudent,
		ClassName: "10-B",
		RollNo:    "17",
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	account, err := svc.Register(context.Background(), studentPayload())
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", account.Email)
	require.NotEmpty(t, account.ID)

	stored, err := store.GetByEmailRole(context.Background(), "asha@example.com", models.RoleStudent)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", stored.PasswordHash)
}

func TestRegisterDuplicateEmailRole(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	_, err := svc.Register(context.Background(), studentPayload())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), studentPayload())
	require.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestRegisterSameEmailDifferentRole(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	_, err := svc.Register(context.Background(), studentPayload())
	require.NoError(t, err)

	educator := studentPayload()
	educator.Role = models.RoleEducator
	educator.ClassName = ""
	educator.RollNo = ""
	_, err = svc.Register(context.Background(), educator)
	require.NoError(t, err)
}

func TestRegisterStripsMarkupFromName(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	payload := studentPayload()
	payload.Name = "<script>alert(1)</script>Asha"
	account, err := svc.Register(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, "Asha", account.Name)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestAccountService(newAccountStoreStub())

	payload := studentPayload()
	payload.Role = "admin"
	_, err := svc.Register(context.Background(), payload)
	require.Error(t, err)
	require.True(t, isValidatorError(err))
}

func isValidatorError(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	registered, err := svc.Register(context.Background(), studentPayload())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	require.Equal(t, registered.ID, result.User.ID)
	require.NotEmpty(t, result.Token)

	token, err := jwt.Parse(result.Token, func(_ *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, registered.ID, claims["sub"])
	require.Equal(t, models.RoleStudent, claims["role"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	_, err := svc.Register(context.Background(), studentPayload())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
		Role:     models.RoleStudent,
	})
	_, unknownEmail := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret-pass",
		Role:     models.RoleStudent,
	})

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginStoreFaultMapsToInvalidCredentials(t *testing.T) {
	store := newAccountStoreStub()
	store.getErr = context.DeadlineExceeded
	svc := newTestAccountService(store)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Role:     models.RoleStudent,
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePreservesEmailAndRole(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	registered, err := svc.Register(context.Background(), studentPayload())
	require.NoError(t, err)

	name := "Asha V."
	class := "11-A"
	updated, err := svc.Update(context.Background(), registered.ID, dto.UpdateAccountRequest{
		Name:      &name,
		ClassName: &class,
	})
	require.NoError(t, err)
	require.Equal(t, "Asha V.", updated.Name)
	require.Equal(t, "11-A", updated.ClassName)
	require.Equal(t, registered.Email, updated.Email)
	require.Equal(t, registered.Role, updated.Role)
	require.Equal(t, "17", updated.RollNo)
}

func TestUpdatePasswordChangesLogin(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	registered, err := svc.Register(context.Background(), studentPayload())
	require.NoError(t, err)

	password := "new-pass-123"
	_, err = svc.Update(context.Background(), registered.ID, dto.UpdateAccountRequest{Password: &password})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Role:     models.RoleStudent,
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "new-pass-123",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
}

func TestUpdateUnknownAccount(t *testing.T) {
	svc := newTestAccountService(newAccountStoreStub())

	name := "Nobody"
	_, err := svc.Update(context.Background(), "missing-id", dto.UpdateAccountRequest{Name: &name})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestListStudentsExcludesEducators(t *testing.T) {
	store := newAccountStoreStub()
	svc := newTestAccountService(store)

	_, err := svc.Register(context.Background(), studentPayload())
	require.NoError(t, err)

	educator := studentPayload()
	educator.Email = "teacher@example.com"
	educator.Role = models.RoleEducator
	_, err = svc.Register(context.Background(), educator)
	require.NoError(t, err)

	students, err := svc.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "asha@example.com", students[0].Email)
}

func TestListStudentsDefaultsMissingFields(t *testing.T) {
	store := newAccountStoreStub()
	store.accounts["bare@example.com|student"] = models.Account{
		ID:    "bare-id",
		Name:  "Bare",
		Email: "bare@example.com",
		Role:  models.RoleStudent,
	}
	svc := newTestAccountService(store)

	students, err := svc.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "N/A", students[0].ClassName)
	require.Equal(t, "N/A", students[0].RollNo)
}
