// Package service provides the business logic for identity management
// and note access control, delegating persistence to repository
// interfaces.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avoronin/noteshare/internal/models"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 12

// IdentityRepository defines the persistence operations required by the
// AuthService.
type IdentityRepository interface {
	// Create stores a new identity; models.ErrEmailTaken if the email
	// is already registered.
	Create(ctx context.Context, ident *models.Identity) error
	// FindByEmail resolves an email to an identity.
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	// FindByID resolves an identity id to an identity.
	FindByID(ctx context.Context, id string) (*models.Identity, error)
}

// claims is the JWT payload carried by bearer tokens.
type claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService registers identities, verifies credentials, and issues
// and resolves signed bearer tokens.
type AuthService struct {
	repo   IdentityRepository
	secret []byte
	ttl    time.Duration
}

// NewAuthService constructs an AuthService. secret signs bearer tokens
// (HS256); ttl bounds their validity.
func NewAuthService(repo IdentityRepository, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, secret: secret, ttl: ttl}
}

// Register creates a new identity and returns it along with a signed
// bearer token. The password must be at least 6 characters.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.Identity, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", models.ErrValidation)
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	ident := &models.Identity{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, ident); err != nil {
		return nil, "", err
	}

	token, err := s.sign(ident)
	if err != nil {
		return nil, "", err
	}
	return ident, token, nil
}

// Login verifies the email/password pair and returns the identity with
// a fresh bearer token. Unknown emails and wrong passwords both yield
// models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Identity, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	ident, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", models.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(ident.PasswordHash, []byte(password)) != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.sign(ident)
	if err != nil {
		return nil, "", err
	}
	return ident, token, nil
}

// ResolveToken parses and validates a bearer token and returns the
// identity it proves. Any parse, signature, or expiry failure yields
// models.ErrUnauthenticated.
func (s *AuthService) ResolveToken(ctx context.Context, bearer string) (*models.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(bearer, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthenticated
	}

	ident, err := s.repo.FindByID(ctx, c.UserID)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}
	return ident, nil
}

// FindByEmail resolves an email to a registered identity.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return s.repo.FindByEmail(ctx, email)
}

// sign issues an HS256 bearer token for the identity.
func (s *AuthService) sign(ident *models.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: ident.ID,
		Email:  ident.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
