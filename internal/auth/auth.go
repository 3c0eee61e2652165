package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wicaksana/internal-portal/internal"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetAuthUser(userID int64) (*AuthUser, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetPasswordForUsername(username string) (passwordHash string, userID int64, err error)
	GetAuthUser(userID int64) (*AuthUser, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID int64) (token string, err error)
	GenerateRefreshToken(userID int64) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// AuthUser is what the middleware needs to build an Actor: identity, tenant
// and role, nothing else.
type AuthUser struct {
	ID       int64
	TenantID int64
	Username string
	Email    string
	Role     internal.Role
	IsActive bool
}

func (u *AuthUser) Actor() internal.Actor {
	return internal.Actor{
		UserID:   u.ID,
		TenantID: u.TenantID,
		Role:     u.Role,
	}
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
