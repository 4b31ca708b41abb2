package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"farmer/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by shed tokens.
type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	User   string
	Pass   string
	Secret string
	Issuer string
	TTL    time.Duration
}

type AuthService struct {
	cfg AuthConfig
	now func() time.Time
}

func NewAuthService(cfg AuthConfig) *AuthService {
	return &AuthService{cfg: cfg, now: time.Now}
}

func (s *AuthService) Login(user, pass string) (string, error) {
	if !s.CheckBasic(user, pass) {
		return "", domain.Unauthorized("invalid credentials provided")
	}
	return s.IssueToken(user)
}

// CheckBasic compares credentials against the configured shed account.
func (s *AuthService) CheckBasic(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.User)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.cfg.Pass)) == 1
	return userOK && passOK && s.cfg.User != ""
}

func (s *AuthService) IssueToken(user string) (string, error) {
	now := s.now()
	claims := Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.cfg.TTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and issuer and returns the user claim.
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.User, nil
}
