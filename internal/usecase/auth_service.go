package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/courtside-sync/internal/platform/cache"
	idgen "github.com/riskibarqy/courtside-sync/internal/platform/id"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	sessionKeyPrefix  = "session:"
)

type AuthConfig struct {
	Username   string
	Password   string
	SessionTTL time.Duration
}

// Session is an issued login session.
type Session struct {
	Token     string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthService issues and checks process-local session tokens. Sessions do
// not survive a restart.
type AuthService struct {
	username string
	password string
	ttl      time.Duration
	sessions *cache.Store
	tokens   idgen.Generator
	logger   *logging.Logger
}

func NewAuthService(cfg AuthConfig, sessions *cache.Store, tokens idgen.Generator, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if sessions == nil {
		sessions = cache.NewStore(cfg.SessionTTL)
	}
	if tokens == nil {
		tokens = idgen.NewSizedGenerator(idgen.TokenSize)
	}

	return &AuthService{
		username: cfg.Username,
		password: cfg.Password,
		ttl:      cfg.SessionTTL,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		s.logger.WarnContext(ctx, "login rejected", "username", username)
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.NewID()
	if err != nil {
		markSpanError(span, err)
		return Session{}, fmt.Errorf("generate session token: %w", err)
	}

	now := s.sessions.Now()
	session := Session{
		Token:     token,
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions.SetWithTTL(ctx, sessionKeyPrefix+token, session, s.ttl)

	s.logger.InfoContext(ctx, "session issued", "username", username, "expires_at", session.ExpiresAt)
	return session, nil
}

// VerifySession returns the live session for token.
func (s *AuthService) VerifySession(ctx context.Context, token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, fmt.Errorf("%w: missing session token", ErrSessionInvalid)
	}

	value, ok := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if !ok {
		return Session{}, ErrSessionInvalid
	}
	session, ok := value.(Session)
	if !ok {
		return Session{}, ErrSessionInvalid
	}
	return session, nil
}

func (s *AuthService) Validate(ctx context.Context, token string) bool {
	_, err := s.VerifySession(ctx, token)
	return err == nil
}

// Logout drops the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	removed := s.sessions.Delete(ctx, sessionKeyPrefix+token)
	if removed {
		s.logger.InfoContext(ctx, "session revoked")
	}
	return removed
}

func (s *AuthService) ActiveSessions() int {
	return s.sessions.Len()
}
