// Package service enforces the preconditions of every domain write on top of
// the repositories: existence and role checks, duplicate detection and the
// mapping of failures onto the error taxonomy.
package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/metrics"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/repository"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/utils"
)

const msgInvalidCredentials = "invalid credentials"

// AuthService registers accounts, issues session tokens and resolves them
// back to users.
type AuthService struct {
	users  *repository.UserRepo
	tokens *repository.TokenRepo
	issuer *utils.TokenIssuer
	argon  utils.Argon2Params
	log    *zap.SugaredLogger

	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(users *repository.UserRepo, tokens *repository.TokenRepo, issuer *utils.TokenIssuer,
	argon utils.Argon2Params, log *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, issuer: issuer, argon: argon, log: log}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// Register creates an account. The username is checked before the email so
// a request duplicating both reports the username.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, repository.NewError(repository.ErrInvalidState, "unknown role %q", in.Role)
	}
	taken, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.NewError(repository.ErrConflict, "username already exists")
	}
	if taken, err = s.users.EmailExists(ctx, in.Email); err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.NewError(repository.ErrConflict, "email already exists")
	}

	hash, err := utils.HashPassword(in.Password, s.argon)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &model.User{Username: in.Username, Email: in.Email, PasswordHash: hash, Role: in.Role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Infow("user registered", "user_id", u.ID, "role", u.Role)
	out := u.Scrubbed()
	return &out, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords fail with the same Unauthorized error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, utils.AccessToken, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, utils.AccessToken{}, err
	}
	if u == nil {
		// burn comparable time so response latency does not reveal usernames
		utils.VerifyPassword(s.dummyCredential(), password)
		metrics.AuthFailures.Inc()
		return nil, utils.AccessToken{}, repository.NewError(repository.ErrUnauthorized, msgInvalidCredentials)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		metrics.AuthFailures.Inc()
		return nil, utils.AccessToken{}, repository.NewError(repository.ErrUnauthorized, msgInvalidCredentials)
	}
	tok, err := s.issuer.Issue(u.ID)
	if err != nil {
		return nil, utils.AccessToken{}, errors.Wrap(err, "issue token")
	}
	out := u.Scrubbed()
	return &out, tok, nil
}

func (s *AuthService) dummyCredential() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = utils.HashPassword("dummy-password", s.argon)
	})
	return s.dummy
}

// Authorize resolves a bearer token to its still-existing user. Revoked,
// expired or orphaned tokens are Unauthorized.
func (s *AuthService) Authorize(ctx context.Context, raw string) (*model.User, utils.Claims, error) {
	claims, err := s.issuer.Verify(raw)
	if err != nil {
		metrics.AuthFailures.Inc()
		return nil, utils.Claims{}, repository.NewError(repository.ErrUnauthorized, "invalid or expired token")
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, utils.Claims{}, err
	}
	if revoked {
		metrics.AuthFailures.Inc()
		return nil, utils.Claims{}, repository.NewError(repository.ErrUnauthorized, "token has been revoked")
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, utils.Claims{}, err
	}
	if u == nil {
		return nil, utils.Claims{}, repository.NewError(repository.ErrUnauthorized, "invalid or expired token")
	}
	out := u.Scrubbed()
	return &out, claims, nil
}

// Logout revokes the token described by claims.
func (s *AuthService) Logout(ctx context.Context, claims utils.Claims) error {
	return s.tokens.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt)
}

func (s *AuthService) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	out := u.Scrubbed()
	return &out, nil
}

// ListUsers returns every user, or only those with role when it is set.
func (s *AuthService) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Scrubbed()
	}
	return users, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id uint64) (bool, error) {
	deleted, err := s.users.Delete(ctx, id)
	if deleted {
		s.log.Infow("user deleted", "user_id", id)
	}
	return deleted, err
}
