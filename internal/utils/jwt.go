package utils // package utils provides credential hashing and session token helpers

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, unexpected algorithm, malformed claims or expiry.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTokenTTL is the lifetime of an access token.
const DefaultTokenTTL = 24 * time.Hour

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the verified content of an access token.
type Claims struct {
	UserID    uint64
	ID        string // jti, unique per issued token
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies HS256 access tokens with a server-held secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID. Every token carries a random jti so two
// tokens minted in the same second still differ.
func (t *TokenIssuer) Issue(userID uint64) (AccessToken, error) {
	iat := t.now().UTC()
	exp := iat.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (t *TokenIssuer) Verify(raw string) (Claims, error) {
	var rc jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &rc, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	uid, err := strconv.ParseUint(rc.Subject, 10, 64)
	if err != nil || uid == 0 || rc.ID == "" {
		return Claims{}, ErrInvalidToken
	}
	c := Claims{UserID: uid, ID: rc.ID, ExpiresAt: rc.ExpiresAt.Time.UTC()}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time.UTC()
	}
	return c, nil
}
