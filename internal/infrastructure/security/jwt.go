package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// FallbackSecret is used when no JWT_SECRET is configured. It must never be
// relied on in production.
const FallbackSecret = "fallback-secret-key"

const defaultTokenTTL = 7 * 24 * time.Hour

// Claims is the payload of an identity token.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 identity tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if secret == "" {
		secret = FallbackSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a token for the given subject, valid for the configured TTL.
func (m *TokenManager) Issue(userID, email string, role domain.Role) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses the token and returns the identity it carries. Any failure
// (malformed, wrong algorithm, bad signature, expired, missing subject)
// collapses into domain.ErrInvalidToken.
func (m *TokenManager) Verify(raw string) (domain.Identity, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
