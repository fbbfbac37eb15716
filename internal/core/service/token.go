package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/ports"
)

// JWTCodec signs and verifies HS256 access tokens. Secret and TTL are fixed
// at construction and shared by Encode and Decode for the process lifetime.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTCodec builds a codec. now may be nil, in which case time.Now is
// used; tests inject a fixed clock.
func NewJWTCodec(secret string, ttl time.Duration, now func() time.Time) *JWTCodec {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &JWTCodec{secret: []byte(secret), ttl: ttl, now: now}
}

// Encode issues a token carrying the identity snapshot, valid for the
// configured TTL from the codec's current time.
func (c *JWTCodec) Encode(userID int64, email, role string) (string, error) {
	issued := c.now().UTC()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"iat":     issued.Unix(),
		"exp":     issued.Add(c.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifies signature, structure and expiry. Every failure mode folds
// into domain.ErrInvalidToken: the caller must not learn which check failed.
func (c *JWTCodec) Decode(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	out := &ports.TokenClaims{
		UserID: int64(userID),
		Email:  email,
		Role:   role,
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
