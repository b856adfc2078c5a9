package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"khawam-pro/models/khawam"
)

const tokenTTL = 24 * time.Hour

// ErrInvalidCredentials is returned for a wrong email/password pair. The
// handler maps it to 401 without leaking which part was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Claims is the JWT payload.
type Claims struct {
	UserID int64           `json:"uid"`
	Role   khawam.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies bearer tokens.
type AuthService struct {
	db     *gorm.DB
	secret []byte
}

// NewAuthService creates the service. secret signs tokens with HMAC-SHA256.
func NewAuthService(db *gorm.DB, secret []byte) *AuthService {
	return &AuthService{db: db, secret: secret}
}

// Register creates a customer account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (*khawam.User, string, error) {
	user := &khawam.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashPassword(password),
		Role:         khawam.RoleCustomer,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*khawam.User, string, error) {
	var user khawam.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(hashPassword(password))) != 1 {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Verify parses a bearer token and returns its claims.
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *AuthService) issueToken(user *khawam.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "khawam-pro",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// hashPassword is a salted-less SHA-256. The upstream identity provider owns
// real credential storage; this keeps local dev accounts out of plain text.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte("khawam:" + password))
	return hex.EncodeToString(sum[:])
}
