package auth

import (
	"context"
	"strings"
	"time"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/session"
	"github.com/radarobras/radar_api/internal/users"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (users.User, error)
}

type SessionManager interface {
	Create(ctx context.Context, userID, role, lojaID string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type Service struct {
	Users            UserStore
	Sessions         SessionManager
	LoginLimiter     RateLimiter
	PasswordVerifier func(hashed, plain string) error
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ClientIP string `json:"-"`
}

type LoginResult struct {
	UserID    string
	UserName  string
	UserEmail string
	UserRole  string
	LojaID    string
	Session   *session.Session
}

// Login rate limits by client IP and by email before touching the password
// hash. A wrong email and a wrong password produce the same error.
func (s *Service) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	if s.Users == nil || s.Sessions == nil {
		return LoginResult{}, apperrors.New(apperrors.KindInternal, "auth not configured")
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return LoginResult{}, apperrors.New(apperrors.KindInvalidInput, "email and password are required")
	}
	if !strings.Contains(email, "@") {
		return LoginResult{}, apperrors.New(apperrors.KindInvalidInput, "invalid email")
	}

	if s.LoginLimiter != nil {
		if strings.TrimSpace(input.ClientIP) != "" {
			allowed, retryAfter, err := s.LoginLimiter.Allow(ctx, "login:ip:"+input.ClientIP)
			if err != nil {
				return LoginResult{}, apperrors.New(apperrors.KindInternal, "rate limit error")
			}
			if !allowed {
				return LoginResult{}, apperrors.RateLimit("too many requests", retryAfter)
			}
		}

		allowed, retryAfter, err := s.LoginLimiter.Allow(ctx, "login:email:"+email)
		if err != nil {
			return LoginResult{}, apperrors.New(apperrors.KindInternal, "rate limit error")
		}
		if !allowed {
			return LoginResult{}, apperrors.RateLimit("too many requests", retryAfter)
		}
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
	}

	verifier := s.PasswordVerifier
	if verifier == nil {
		verifier = func(hashed, plain string) error {
			return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
		}
	}

	if err := verifier(u.PasswordHash, password); err != nil {
		return LoginResult{}, apperrors.New(apperrors.KindUnauthorized, "invalid credentials")
	}

	sess, err := s.Sessions.Create(ctx, u.ID, string(u.Role), u.LojaID)
	if err != nil {
		return LoginResult{}, apperrors.New(apperrors.KindInternal, "failed to create session")
	}

	return LoginResult{
		UserID:    u.ID,
		UserName:  u.Name,
		UserEmail: u.Email,
		UserRole:  string(u.Role),
		LojaID:    u.LojaID,
		Session:   sess,
	}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if s.Sessions == nil {
		return apperrors.New(apperrors.KindInternal, "auth not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.New(apperrors.KindInternal, "failed to logout")
	}
	return nil
}
