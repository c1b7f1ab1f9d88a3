package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/ratelimit"
	apperrors "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/errors"
)

func newAuthService(userRepo *mockUserRepository, sessionRepo *mockSessionRepository) *AuthService {
	return NewAuthService(userRepo, sessionRepo, ratelimit.NewMemoryStore(), newTestEventProducer(), nil, newTestLogger())
}

// hashForTest creates a bcrypt hash with minimum cost for fast tests.
func hashForTest(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "priya@example.in" && u.Role == domain.RoleCustomer && u.PasswordHash != "secret-password"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "user-001"
	}).Return(nil)
	sessionRepo.On("CreateReplacing", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.UserID == "user-001" && s.TokenHash != ""
	})).Return(nil)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Email:    "priya@example.in",
		Password: "secret-password",
		Name:     "Priya Sharma",
		ClientIP: "1.2.3.4",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-001", user.ID)
	userRepo.AssertExpectations(t)
	sessionRepo.AssertExpectations(t)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "priya@example.in"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "user-001"
	}).Return(nil)
	sessionRepo.On("CreateReplacing", mock.Anything, mock.Anything).Return(nil)

	user, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Priya@Example.IN ",
		Password: "secret-password",
		Name:     "Priya Sharma",
		ClientIP: "1.2.3.4",
	})
	require.NoError(t, err)
	assert.Equal(t, "priya@example.in", user.Email)
	userRepo.AssertExpectations(t)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newAuthService(new(mockUserRepository), new(mockSessionRepository))

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.in",
		Password: "short",
		Name:     "A",
		ClientIP: "1.2.3.4",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRegister_RateLimitedPerIP(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	userRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "u"
	}).Return(nil)
	sessionRepo.On("CreateReplacing", mock.Anything, mock.Anything).Return(nil)

	input := RegisterInput{Password: "long-enough-pw", Name: "A", ClientIP: "9.9.9.9"}
	for i := 0; i < 3; i++ {
		input.Email = string(rune('a'+i)) + "@b.in"
		_, _, err := svc.Register(context.Background(), input)
		require.NoError(t, err)
	}

	input.Email = "d@b.in"
	_, _, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	user := &domain.User{ID: "user-001", Email: "priya@example.in", PasswordHash: hashForTest(t, "secret-password")}
	userRepo.On("GetByEmail", mock.Anything, "priya@example.in").Return(user, nil)
	sessionRepo.On("CreateReplacing", mock.Anything, mock.Anything).Return(nil)

	got, token, err := svc.Login(context.Background(), LoginInput{
		Email:    "priya@example.in",
		Password: "secret-password",
		ClientIP: "1.2.3.4",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-001", got.ID)
	userRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	user := &domain.User{ID: "user-001", Email: "priya@example.in", PasswordHash: hashForTest(t, "secret-password")}
	userRepo.On("GetByEmail", mock.Anything, "priya@example.in").Return(user, nil)
	sessionRepo.On("CreateReplacing", mock.Anything, mock.Anything).Return(nil)

	got, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "Priya@Example.IN",
		Password: "secret-password",
		ClientIP: "1.2.3.4",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-001", got.ID)
	userRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newAuthService(userRepo, new(mockSessionRepository))

	user := &domain.User{ID: "user-001", PasswordHash: hashForTest(t, "right")}
	userRepo.On("GetByEmail", mock.Anything, "priya@example.in").Return(user, nil)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "priya@example.in",
		Password: "wrong",
		ClientIP: "1.2.3.4",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newAuthService(userRepo, new(mockSessionRepository))

	userRepo.On("GetByEmail", mock.Anything, "nobody@example.in").Return(nil, apperrors.ErrNotFound)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.in",
		Password: "whatever",
		ClientIP: "1.2.3.4",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestLogin_LegacyPasswordUpgraded(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	user := &domain.User{ID: "user-001", Email: "old@example.in", PasswordHash: "monsoon@123"}
	userRepo.On("GetByEmail", mock.Anything, "old@example.in").Return(user, nil)
	userRepo.On("UpdatePasswordHash", mock.Anything, "user-001", mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("monsoon@123")) == nil
	})).Return(nil)
	sessionRepo.On("CreateReplacing", mock.Anything, mock.Anything).Return(nil)

	got, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "old@example.in",
		Password: "monsoon@123",
		ClientIP: "1.2.3.4",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "monsoon@123", got.PasswordHash)
	userRepo.AssertExpectations(t)
}

func TestLogin_LegacyUpgradeFailureStillLogsIn(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	user := &domain.User{ID: "user-001", Email: "old@example.in", PasswordHash: "monsoon@123"}
	userRepo.On("GetByEmail", mock.Anything, "old@example.in").Return(user, nil)
	userRepo.On("UpdatePasswordHash", mock.Anything, "user-001", mock.Anything).Return(assert.AnError)
	sessionRepo.On("CreateReplacing", mock.Anything, mock.Anything).Return(nil)

	_, token, err := svc.Login(context.Background(), LoginInput{
		Email:    "old@example.in",
		Password: "monsoon@123",
		ClientIP: "1.2.3.4",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_RateLimitedAfterFailures(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newAuthService(userRepo, new(mockSessionRepository))

	user := &domain.User{ID: "user-001", PasswordHash: hashForTest(t, "right")}
	userRepo.On("GetByEmail", mock.Anything, "priya@example.in").Return(user, nil)

	input := LoginInput{Email: "priya@example.in", Password: "wrong", ClientIP: "1.2.3.4"}
	for i := 0; i < 5; i++ {
		_, _, err := svc.Login(context.Background(), input)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	}

	// Sixth attempt is throttled even with the right password.
	input.Password = "right"
	_, _, err := svc.Login(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
}

func TestResolveSession_Valid(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	session := &domain.Session{
		ID:        "sess-001",
		UserID:    "user-001",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	sessionRepo.On("GetByTokenHash", mock.Anything, mock.Anything).Return(session, nil)
	userRepo.On("GetByID", mock.Anything, "user-001").Return(&domain.User{ID: "user-001"}, nil)

	user, err := svc.ResolveSession(context.Background(), "sometoken")
	require.NoError(t, err)
	assert.Equal(t, "user-001", user.ID)
}

func TestResolveSession_ExpiredDeleted(t *testing.T) {
	userRepo := new(mockUserRepository)
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(userRepo, sessionRepo)

	session := &domain.Session{
		ID:        "sess-001",
		UserID:    "user-001",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	sessionRepo.On("GetByTokenHash", mock.Anything, mock.Anything).Return(session, nil)
	sessionRepo.On("Delete", mock.Anything, "sess-001").Return(nil)

	_, err := svc.ResolveSession(context.Background(), "sometoken")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	sessionRepo.AssertCalled(t, "Delete", mock.Anything, "sess-001")
}

func TestLogout_UnknownTokenIsNoop(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	svc := newAuthService(new(mockUserRepository), sessionRepo)

	sessionRepo.On("GetByTokenHash", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)

	assert.NoError(t, svc.Logout(context.Background(), "unknown"))
}

func TestEnsureAdmin_CreatesWhenMissing(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newAuthService(userRepo, new(mockSessionRepository))

	userRepo.On("GetByEmail", mock.Anything, "admin@shop.in").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleAdmin && u.Email == "admin@shop.in"
	})).Return(nil)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@shop.in", "admin-password"))
	userRepo.AssertExpectations(t)
}

func TestEnsureAdmin_SkipsWhenPresent(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newAuthService(userRepo, new(mockSessionRepository))

	userRepo.On("GetByEmail", mock.Anything, "admin@shop.in").Return(&domain.User{ID: "a"}, nil)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@shop.in", "admin-password"))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProfile(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newAuthService(userRepo, new(mockSessionRepository))

	userRepo.On("GetByID", mock.Anything, "user-001").Return(&domain.User{ID: "user-001", Name: "Old"}, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "New Name" && u.Phone == "9876543210"
	})).Return(nil)

	got, err := svc.UpdateProfile(context.Background(), "user-001", UpdateProfileInput{
		Name:  strPtr("New Name"),
		Phone: strPtr("9876543210"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
}
