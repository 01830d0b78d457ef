package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/apperr"
	"github.com/rohits-web03/piiquante/internal/auth"
	"github.com/rohits-web03/piiquante/internal/models"
	"github.com/rohits-web03/piiquante/internal/repositories"
	"github.com/rohits-web03/piiquante/internal/utils"
)

// Credentials is the email and password pair sent to signup and login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c Credentials) normalized() Credentials {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return c
}

// Session is what a successful login hands back to the client.
type Session struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type UserService struct {
	users  repositories.UserRepository
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
	log    *zap.Logger
}

func NewUserService(users repositories.UserRepository, tokens *auth.TokenService, hasher *auth.PasswordHasher, log *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, hasher: hasher, log: log}
}

func (s *UserService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	creds := Credentials{Email: email, Password: password}.normalized()
	if err := utils.ValidateStruct(creds); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to hash password", err)
	}

	user := &models.User{Email: creds.Email, Password: digest}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperr.Wrap(apperr.InvalidInput, "User already exists with this email", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to create user", err)
	}
	s.log.Info("user registered", zap.String("userId", user.ID))
	return user, nil
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords fail the same way.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	creds := Credentials{Email: email, Password: password}.normalized()
	if err := utils.ValidateStruct(creds); err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "Invalid credentials", err)
	}

	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.Unauthenticated, "Invalid credentials")
		}
		return nil, apperr.Wrap(apperr.Internal, "Database error", err)
	}
	if err := s.hasher.Verify(user.Password, creds.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperr.New(apperr.Unauthenticated, "Invalid credentials")
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to check password", err)
	}
	return s.session(user)
}

// GoogleSignIn logs in or registers the account behind a verified Google
// email. The login flow needs an existing account; the register flow needs
// a new one.
func (s *UserService) GoogleSignIn(ctx context.Context, email string, flow OAuthFlow) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "Google did not return a usable email", err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if flow == FlowRegister {
			return nil, apperr.New(apperr.InvalidInput, "User already exists with this email")
		}
	case errors.Is(err, repositories.ErrNotFound):
		if flow != FlowRegister {
			return nil, apperr.New(apperr.Unauthenticated, "No account exists for this Google user")
		}
		user = &models.User{Email: email}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicateEmail) {
				return nil, apperr.Wrap(apperr.InvalidInput, "User already exists with this email", err)
			}
			return nil, apperr.Wrap(apperr.Internal, "Failed to create user", err)
		}
		s.log.Info("user registered through google", zap.String("userId", user.ID))
	default:
		return nil, apperr.Wrap(apperr.Internal, "Database error", err)
	}
	return s.session(user)
}

// Authenticate resolves a bearer token to a user id.
func (s *UserService) Authenticate(token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", apperr.Wrap(apperr.Unauthenticated, "Unauthorized", err)
	}
	return userID, nil
}

func (s *UserService) TokenTTL() int {
	return int(s.tokens.TTL().Seconds())
}

func (s *UserService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create token", err)
	}
	return &Session{UserID: user.ID, Token: token}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := utils.ValidateVar(email, "required,email"); err != nil {
		return "", apperr.Wrap(apperr.InvalidInput, "A valid email is required", err)
	}
	return email, nil
}
