package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/authz"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/pkg/hash"
	"github.com/Skotchmaster/inventory/pkg/logging"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	SessionSecret []byte
	SessionTTL    time.Duration
}

// Authenticate checks the credentials. Unknown users and wrong passwords both give ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (authz.Identity, error) {
	if username == "" || password == "" {
		return authz.Identity{}, ErrInvalidCredentials
	}

	admin, err := s.Repo.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.Identity{}, ErrInvalidCredentials
		}
		return authz.Identity{}, fmt.Errorf("lookup account: %w", err)
	}
	if !hash.CheckPassword(admin.PasswordHash, password) {
		return authz.Identity{}, ErrInvalidCredentials
	}

	return authz.Identity{User: admin.Username, Role: admin.Role}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	ident, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			l.Warnw("login_failed", "status", 401, "reason", "invalid username or password")
		} else {
			l.Errorw("login_failed", "status", 500, "error", err)
		}
		return nil, err
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	exp := time.Now().Add(ttl)
	token, err := tokens.NewSessionToken(s.SessionSecret, ident.User, ident.Role, exp)
	if err != nil {
		l.Errorw("login_failed", "status", 500, "reason", "cannot sign session", "error", err)
		return nil, fmt.Errorf("sign session: %w", err)
	}

	l.Infow("login_successful", "role", ident.Role)
	return &transport.LoginResult{
		User:      ident.User,
		Role:      ident.Role,
		Token:     token,
		ExpiresAt: exp,
	}, nil
}
