package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/infolink/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService 负责凭据校验与令牌签发。
type AuthService struct {
	users  *UserService
	secret []byte
	ttl    time.Duration
}

// NewAuthService creates an AuthService signing HS256 tokens with secret.
func NewAuthService(gdb *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  NewUserService(gdb),
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Authenticate verifies email and password against the stored hash.
// Unknown email, wrong password and deactivated account all fail the
// same way so callers cannot probe which one it was.
func (s *AuthService) Authenticate(email, password string) (*db.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a bearer token whose subject is the user id.
func (s *AuthService) IssueToken(user *db.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates a bearer token and returns the user id it names.
func (s *AuthService) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// 只接受 HMAC 签名，防止算法混淆
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(subject, 10, 32)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// Login authenticates the credentials and issues a token on success.
func (s *AuthService) Login(email, password string) (string, *db.User, error) {
	user, err := s.Authenticate(email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
