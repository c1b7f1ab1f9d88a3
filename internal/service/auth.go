package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/auth"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/event"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/notifier"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/ratelimit"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/repository"
	apperrors "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/errors"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/pagination"
)

// Rate limit policy for the auth endpoints.
const (
	loginMaxAttempts  = 5
	loginWindow       = 15 * time.Minute
	signupMaxAttempts = 3
	signupWindow      = time.Hour
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AuthService implements registration, login, and session management.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	limiter     ratelimit.Store
	producer    *event.Producer
	senders     []notifier.Sender
	logger      *slog.Logger
}

// NewAuthService creates a new auth service. senders receive the welcome
// message fire-and-forget.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	limiter ratelimit.Store,
	producer *event.Producer,
	senders []notifier.Sender,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		limiter:     limiter,
		producer:    producer,
		senders:     senders,
		logger:      logger,
	}
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	ClientIP string
}

// LoginInput holds the parameters for login.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// Register creates a customer account and opens a session. The plaintext
// session token is returned for the cookie.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	input.Email = normalizeEmail(input.Email)
	if input.Email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if input.Name == "" {
		return nil, "", apperrors.InvalidInput("name is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if err := s.checkLimit(ctx, "signup:ip:"+input.ClientIP, signupMaxAttempts, signupWindow); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Phone:        input.Phone,
		Role:         domain.RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	// Publish registration event and welcome message (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
	s.sendWelcome(ctx, user)

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Login authenticates with email and password and opens a session. Stored
// credentials imported from the previous platform are upgraded to bcrypt on
// the first successful login.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	input.Email = normalizeEmail(input.Email)
	if input.Email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, "", apperrors.InvalidInput("password is required")
	}

	emailKey := "login:email:" + input.Email
	if err := s.checkLimit(ctx, emailKey, loginMaxAttempts, loginWindow); err != nil {
		return nil, "", err
	}
	if err := s.checkLimit(ctx, "login:ip:"+input.ClientIP, loginMaxAttempts, loginWindow); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		// Same response for unknown email and wrong password.
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	cred := auth.ParseCredential(user.PasswordHash)
	if !cred.Verify(input.Password) {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	if cred.IsLegacy() {
		s.upgradeLegacyCredential(ctx, user, input.Password)
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	// A successful login clears the email window; the IP window keeps
	// counting so one valid account cannot launder a spray.
	if err := s.limiter.Reset(ctx, emailKey); err != nil {
		s.logger.WarnContext(ctx, "failed to reset login rate limit",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Logout revokes the session belonging to the token. Unknown tokens are a
// no-op so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	session, err := s.sessionRepo.GetByTokenHash(ctx, auth.HashToken(token))
	if err != nil {
		return nil
	}

	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", session.UserID),
	)

	return nil
}

// ResolveSession returns the user behind a session token. Expired sessions
// are deleted on sight.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("not logged in")
	}

	session, err := s.sessionRepo.GetByTokenHash(ctx, auth.HashToken(token))
	if err != nil {
		return nil, apperrors.Unauthorized("invalid session")
	}

	if session.Expired(time.Now().UTC()) {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to delete expired session",
				slog.String("session_id", session.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperrors.Unauthorized("session expired")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid session")
	}

	return user, nil
}

// UpdateProfileInput holds profile fields a customer may change.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

// UpdateProfile modifies the customer's own profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("name cannot be empty")
		}
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// ListCustomers returns customer accounts for the admin view.
func (s *AuthService) ListCustomers(ctx context.Context, params pagination.Params) ([]domain.User, int, error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return users, total, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist.
// Called once at startup with credentials from configuration.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Store Admin",
		Role:         domain.RoleAdmin,
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	s.logger.InfoContext(ctx, "bootstrap admin created",
		slog.String("email", email),
	)

	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry. Intended to run
// periodically from the app.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	n, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "purged expired sessions",
			slog.Int64("count", n),
		)
	}
	return nil
}

// openSession issues a fresh token and replaces any existing session so each
// account holds at most one active session.
func (s *AuthService) openSession(ctx context.Context, userID string) (string, error) {
	token, hash, err := auth.NewSessionToken()
	if err != nil {
		return "", err
	}

	session := &domain.Session{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(domain.SessionTTL),
	}

	if err := s.sessionRepo.CreateReplacing(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return token, nil
}

// upgradeLegacyCredential rehashes an imported plaintext password. Failures
// are logged and swallowed: the user already proved the password, and the
// upgrade will retry on the next login.
func (s *AuthService) upgradeLegacyCredential(ctx context.Context, user *domain.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash legacy password",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.ErrorContext(ctx, "failed to upgrade legacy password",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	user.PasswordHash = hash

	s.logger.InfoContext(ctx, "legacy password upgraded",
		slog.String("user_id", user.ID),
	)
}

func (s *AuthService) sendWelcome(ctx context.Context, user *domain.User) {
	n := &notifier.Notification{
		Recipient: user.Email,
		Subject:   "Welcome to Darshan Style Hub",
		Body:      fmt.Sprintf("Namaste %s, your account is ready. Happy shopping!", user.Name),
	}
	for _, sender := range s.senders {
		if err := sender.Send(ctx, n); err != nil {
			s.logger.WarnContext(ctx, "welcome notification failed",
				slog.String("sender", sender.Name()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// normalizeEmail lowercases and trims an address so casing never splits an
// account. The users.email unique constraint sees only the normalized form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) checkLimit(ctx context.Context, key string, max int, window time.Duration) error {
	res, err := s.limiter.Check(ctx, key, max, window)
	if err != nil {
		// A broken limiter must not lock everyone out.
		s.logger.ErrorContext(ctx, "rate limit check failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if !res.Allowed {
		return apperrors.RateLimited("too many attempts, try again later")
	}
	return nil
}
