package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/cryptox"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/auth"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/validation"
)

// Login lockout policy.
const (
	MaxFailedLogins = 3
	LockoutDuration = 15 * time.Minute
)

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken string
	ExpiresAt   time.Time
}

// UserService registers accounts and exchanges credentials for access tokens.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
	now                         func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      logger.With("module", "users"),
		now:                         time.Now,
	}
}

// dummyHash is verified against when the email is unknown so that both
// failure paths cost the same.
var dummyHash = sync.OnceValue(func() string {
	return cryptox.HashPassword("filevault-no-such-user")
})

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, in validation.RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: cryptox.HashPassword(in.Password),
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, &common.PersistenceError{Op: "insert user", Err: err}
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and returns an access token. After
// MaxFailedLogins consecutive failures the account is locked for
// LockoutDuration from the last failure.
func (s *UserService) Login(ctx context.Context, in validation.LoginInput) (*TokenPair, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = cryptox.VerifyPassword(in.Password, dummyHash())
			return nil, common.ErrorUnauthorized
		}
		return nil, &common.PersistenceError{Op: "find user", Err: err}
	}

	now := s.now()
	if locked(user, now) {
		return nil, common.ErrorAccountLocked
	}

	ok, err := cryptox.VerifyPassword(in.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	if !ok {
		u, err := repo.RegisterFailedLogin(ctx, user.ID, now, MaxFailedLogins)
		if err != nil {
			s.logger.Warn(ctx, "failed login not recorded", "user_id", user.ID, "error", err)
		} else if u.IsLocked {
			s.logger.Warn(ctx, "account locked", "user_id", user.ID, "failed_logins", u.FailedLogins)
		}
		return nil, common.ErrorUnauthorized
	}

	if user.FailedLogins > 0 || user.IsLocked {
		if err := repo.ResetFailedLogins(ctx, user.ID); err != nil {
			return nil, &common.PersistenceError{Op: "reset failed logins", Err: err}
		}
	}

	access, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, ExpiresAt: now.Add(s.accessTokenValidityDuration)}, nil
}

func locked(u *models.User, now time.Time) bool {
	if !u.IsLocked || u.LastFailedAt == nil {
		return false
	}
	return now.Before(u.LastFailedAt.Add(LockoutDuration))
}
