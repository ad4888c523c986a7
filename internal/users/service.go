package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"ecomlens/internal/auth"
	"ecomlens/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultUsageLimit = 5
	DefaultAdminLimit = 1000
	DefaultAdminEmail = "admin@admin.com"
	AdminID           = "admin-1"
)

type Options struct {
	// DefaultLimit is the daily limit of new accounts; nil means
	// DefaultUsageLimit.
	DefaultLimit *int
	AdminEmail   string
	AdminLimit   int
	Location     *time.Location
	Now          func() time.Time
	Logger       *slog.Logger
}

type Service struct {
	repo         Repository
	sessions     SessionStore
	defaultLimit int
	adminEmail   string
	adminLimit   int
	loc          *time.Location
	now          func() time.Time
	log          *slog.Logger
}

func NewService(repo Repository, sessions SessionStore, opts Options) *Service {
	s := &Service{
		repo:         repo,
		sessions:     sessions,
		defaultLimit: DefaultUsageLimit,
		adminEmail:   strings.ToLower(strings.TrimSpace(opts.AdminEmail)),
		adminLimit:   opts.AdminLimit,
		loc:          opts.Location,
		now:          opts.Now,
		log:          opts.Logger,
	}
	if opts.DefaultLimit != nil {
		s.defaultLimit = ClampLimit(*opts.DefaultLimit)
	}
	if s.adminEmail == "" {
		s.adminEmail = DefaultAdminEmail
	}
	if s.adminLimit <= 0 {
		s.adminLimit = DefaultAdminLimit
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Today is the current calendar date in the service's time zone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(models.DateLayout)
}

// Initialize seeds the admin account when the store is empty.
func (s *Service) Initialize(ctx context.Context) error {
	seeded, err := s.repo.SeedIfEmpty(ctx, &models.User{
		ID:            AdminID,
		Email:         s.adminEmail,
		Role:          models.RoleAdmin,
		UsageLimit:    s.adminLimit,
		LastResetDate: s.Today(),
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if seeded {
		s.log.Info("seeded admin account", slog.String("email", s.adminEmail))
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Signup creates a standard account and makes it current for sessionKey.
// The password is optional; when present it is stored as a bcrypt hash.
func (s *Service) Signup(ctx context.Context, sessionKey, email, password string) (*models.User, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Email:         email,
		Role:          models.RoleUser,
		UsageLimit:    s.defaultLimit,
		LastResetDate: s.Today(),
		CreatedAt:     s.now().UTC(),
	}
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.SetCurrent(ctx, sessionKey, user.ID); err != nil {
		return nil, err
	}

	s.log.Info("user signed up", slog.String("user_id", user.ID), slog.String("email", user.Email))
	return user, nil
}

// Login makes the account with the given email current for sessionKey.
// Accounts without a stored password hash are accepted on email alone.
func (s *Service) Login(ctx context.Context, sessionKey, email, password string) (*models.User, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user.PasswordHash != "" && !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	user, err = s.repo.ResetUsageIfStale(ctx, user.ID, s.Today())
	if err != nil {
		return nil, err
	}
	if err := s.SetCurrent(ctx, sessionKey, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Logout(ctx context.Context, sessionKey string) error {
	return s.ClearCurrent(ctx, sessionKey)
}

func (s *Service) SetCurrent(ctx context.Context, sessionKey, userID string) error {
	err := s.sessions.Set(ctx, &models.Session{
		ID:        sessionKey,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *Service) ClearCurrent(ctx context.Context, sessionKey string) error {
	if err := s.sessions.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current resolves the user behind sessionKey, re-reading the store and
// applying the daily reset. It returns (nil, nil) when nobody is logged in.
func (s *Service) Current(ctx context.Context, sessionKey string) (*models.User, error) {
	session, err := s.sessions.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.repo.ResetUsageIfStale(ctx, session.UserID, s.Today())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.Warn("session points at missing user, clearing",
				slog.String("session_id", sessionKey),
				slog.String("user_id", session.UserID),
			)
			return nil, s.ClearCurrent(ctx, sessionKey)
		}
		return nil, err
	}
	return user, nil
}

// IsAllowed is the quota gate: true iff usage is below the limit.
func IsAllowed(user *models.User) bool {
	return user.UsageCount < user.UsageLimit
}

// Increment charges one generation attempt. There is no clamping, so the
// counter may pass the limit when attempts race past the gate.
func (s *Service) Increment(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.IncrementUsage(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment usage: %w", err)
	}
	return user, nil
}

func (s *Service) ListAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// SetLimit stores a new daily limit, floored at zero.
func (s *Service) SetLimit(ctx context.Context, userID string, limit int) (*models.User, error) {
	user, err := s.repo.SetLimit(ctx, userID, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	s.log.Info("usage limit changed", slog.String("user_id", userID), slog.Int("limit", user.UsageLimit))
	return user, nil
}

// AdjustLimit moves the limit by delta, floored at zero. Concurrent
// adjustments all apply.
func (s *Service) AdjustLimit(ctx context.Context, userID string, delta int) (*models.User, error) {
	user, err := s.repo.AdjustLimit(ctx, userID, delta)
	if err != nil {
		return nil, err
	}
	s.log.Info("usage limit adjusted",
		slog.String("user_id", userID),
		slog.Int("delta", delta),
		slog.Int("limit", user.UsageLimit),
	)
	return user, nil
}
