package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and verifies HMAC-signed tokens for the single admin
// account. Credentials come from config; the password is stored as a
// bcrypt hash, never in the clear.
type Service struct {
	hmac     []byte
	user     string
	passHash []byte
	ttl      time.Duration
}

func NewService(secret, adminUser, adminPassHash string) *Service {
	return &Service{
		hmac:     []byte(secret),
		user:     adminUser,
		passHash: []byte(adminPassHash),
		ttl:      8 * time.Hour,
	}
}

type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

// Login checks the admin credentials and returns a signed token.
func (s *Service) Login(username, password string) (string, error) {
	if username != s.user {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.IssueJWT(username)
}

func (s *Service) IssueJWT(sub string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub: sub,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quizpilot",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.hmac, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// HashPassword is a convenience for generating the config hash.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
