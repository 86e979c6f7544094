package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/linkrank/internal/database"
	"github.com/vadimbarashkov/linkrank/internal/models"
	"golang.org/x/crypto/bcrypt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrInvalidCredentials is returned when sign-in fails. Unknown email
// and wrong password are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines the user persistence operations the auth layer needs.
type UserRepository interface {
	// Create inserts a new user with the given bcrypt password hash.
	// Returns the created user model or an error if the operation fails.
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns the user model if found or an error if not found.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionRepository defines the session persistence operations the auth layer needs.
type SessionRepository interface {
	// Create persists a new session token for the given user.
	Create(ctx context.Context, userID int64, token string) (*models.Session, error)

	// GetByToken retrieves the session matching the given bearer token.
	GetByToken(ctx context.Context, token string) (*models.Session, error)
}

// AuthService registers accounts and authenticates sign-ins, minting
// opaque session tokens. Tokens never expire; a user may hold any
// number of concurrent sessions.
type AuthService struct {
	userRepo    UserRepository
	sessionRepo SessionRepository
	tokenLength int
}

// NewAuthService creates a new AuthService with the provided repositories
// and session token length.
func NewAuthService(userRepo UserRepository, sessionRepo SessionRepository, tokenLength int) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenLength: tokenLength,
	}
}

// Register creates a new account. The password is stored only as a
// salted bcrypt hash. Returns database.ErrEmailExists if the email is
// already taken.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	const op = "service.AuthService.Register"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := s.userRepo.Create(ctx, name, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to register user: %w", op, err)
	}

	return user, nil
}

// Authenticate verifies the credentials and mints a new session token.
// It returns ErrInvalidCredentials for an unknown email as well as for
// a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	const op = "service.AuthService.Authenticate"

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := gonanoid.New(s.tokenLength)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate session token: %w", op, err)
	}

	if _, err := s.sessionRepo.Create(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("%s: failed to create session: %w", op, err)
	}

	return token, nil
}

// VerifyToken resolves a bearer token to its session.
// Returns database.ErrSessionNotFound for unknown tokens.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.Session, error) {
	const op = "service.AuthService.VerifyToken"

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to verify token: %w", op, err)
	}

	return session, nil
}
