package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/samutthan/pkg/errors"
)

const tokenIssuer = "samutthan"

// Config configures session token signing.
type Config struct {
	Secret string
	TTL    time.Duration
}

// Issuer signs and verifies the bearer tokens that address wizard sessions.
type Issuer interface {
	Issue(sessionID string) (string, time.Time, error)
	Parse(token string) (string, error)
}

type issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an HS256 issuer. Without a configured secret a random
// one is generated, so tokens do not survive a restart.
func NewIssuer(cfg Config, logger *slog.Logger) (Issuer, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		logger.With("component", "session.issuer").Warn("session secret not configured; using a per-process secret")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (i *issuer) Issue(sessionID string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(apperrors.CodeInvalidToken, "failed to sign token", err)
	}
	return signed, expiresAt, nil
}

func (i *issuer) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "token validation failed", err)
	}
	if !parsed.Valid {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "token invalid", nil)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidToken, "token subject is not a session id", err)
	}
	return claims.Subject, nil
}
