// Package auth hashes passwords and issues/validates bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/skilllink/internal/config"
	svcErr "github.com/oggyb/skilllink/internal/errors"
)

// Credentials is the credential service. It is built once from config and
// shared read-only by every request.
type Credentials struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Claims carried by an access token. Subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

func NewCredentials(cfg *config.Config) *Credentials {
	return &Credentials{
		secret: []byte(cfg.Auth.Secret),
		issuer: cfg.Auth.Issuer,
		ttl:    cfg.Auth.TokenTTL,
		now:    time.Now,
	}
}

// TTL is the lifetime of issued tokens.
func (c *Credentials) TTL() time.Duration { return c.ttl }

// Hash returns a salted bcrypt hash of password.
func (c *Credentials) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash.
func (c *Credentials) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Issue signs an HS256 token for subject that expires after the configured TTL.
func (c *Credentials) Issue(subject string) (string, error) {
	now := c.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Validate checks signature, algorithm and expiry and returns the subject.
// Every failure is reported as ErrUnauthorized.
func (c *Credentials) Validate(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", svcErr.ErrUnauthorized, err)
	}
	if !token.Valid {
		return "", fmt.Errorf("%w: %v", svcErr.ErrUnauthorized, jwt.ErrSignatureInvalid)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: %v", svcErr.ErrUnauthorized, errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
