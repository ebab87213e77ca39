package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type authUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type sessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthConfig defines configuration for session-based authentication.
type AuthConfig struct {
	CookieName   string
	HashKey      string
	BlockKey     string
	SessionTTL   time.Duration
	SecureCookie bool
}

// RegisterRequest captures the insertable user shape. is_admin is not
// accepted here and is always persisted false.
type RegisterRequest struct {
	Username    string  `json:"username" validate:"required,min=3"`
	Password    string  `json:"password" validate:"required,min=6"`
	Email       string  `json:"email" validate:"required,email"`
	FullName    string  `json:"full_name" validate:"required,min=2"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty"`
	GradeLevel  *string `json:"grade_level" validate:"omitempty"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// AuthService implements register/login/logout/current-user over server-side
// session rows referenced by a signed cookie.
type AuthService struct {
	users     authUserRepository
	sessions  sessionRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	codec     *securecookie.SecureCookie
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, sessions sessionRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var blockKey []byte
	if config.BlockKey != "" {
		blockKey = []byte(config.BlockKey)
	}
	codec := securecookie.New([]byte(config.HashKey), blockKey)
	codec.MaxAge(int(config.SessionTTL.Seconds()))
	return &AuthService{users: users, sessions: sessions, validator: validate, logger: logger, config: config, codec: codec}
}

// CookieName returns the configured session cookie name.
func (s *AuthService) CookieName() string { return s.config.CookieName }

// CookieMaxAge returns the session lifetime in seconds.
func (s *AuthService) CookieMaxAge() int { return int(s.config.SessionTTL.Seconds()) }

// SecureCookie reports whether the cookie requires HTTPS.
func (s *AuthService) SecureCookie() bool { return s.config.SecureCookie }

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid registration payload")
	}

	req.Username = strings.TrimSpace(req.Username)

	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrUsernameTaken, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		GradeLevel:   req.GradeLevel,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// Login authenticates a user and opens a session, returning the user and the
// encoded cookie value.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.User, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", invalidPayload(err, "invalid login payload")
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	session := &models.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.config.SessionTTL),
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open session")
	}

	encoded, err := s.codec.Encode(s.config.CookieName, session.ID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode session cookie")
	}

	return user, encoded, nil
}

// Logout tears down the session referenced by the cookie value. An invalid or
// unknown cookie logs out silently.
func (s *AuthService) Logout(ctx context.Context, cookieValue string) error {
	sessionID, err := s.decode(cookieValue)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close session")
	}
	return nil
}

// Authenticate resolves a cookie value to the logged-in user. Expired
// sessions are removed eagerly.
func (s *AuthService) Authenticate(ctx context.Context, cookieValue string) (*models.User, error) {
	sessionID, err := s.decode(cookieValue)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session cookie")
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	if session.Expired(time.Now().UTC()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "user no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// PruneExpired removes sessions past their expiry.
func (s *AuthService) PruneExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func (s *AuthService) decode(cookieValue string) (string, error) {
	var sessionID string
	if err := s.codec.Decode(s.config.CookieName, cookieValue, &sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}
