package ports

import "time"

// TokenClaims is the verified payload of an access token: an identity
// snapshot taken at issuance time.
type TokenClaims struct {
	UserID    int64
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec turns an identity into a signed, time-bounded opaque string and
// back. Decode returns domain.ErrInvalidToken for malformed input, a bad
// signature or an expired token alike.
type TokenCodec interface {
	Encode(userID int64, email, role string) (string, error)
	Decode(token string) (*TokenClaims, error)
}
