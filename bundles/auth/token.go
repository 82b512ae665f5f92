package auth

import (
	"encoding/base64"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// DefaultTokenTTL is used when the issuer is created with a zero TTL.
const DefaultTokenTTL = 24 * time.Hour

// Claims are the claims carried by forum tokens.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer creates an Issuer from a base64 URL encoded secret.
func NewIssuer(base64Secret string, ttl time.Duration) (*Issuer, error) {
	key, err := base64.URLEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, errors.Wrap(err, "error while decoding token secret")
	}
	if len(key) == 0 {
		return nil, errors.New("empty token secret")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for the given user and its expiration time.
func (i *Issuer) Issue(userID uint, username string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl).UTC().Truncate(time.Second)
	claims := Claims{
		UserID:   userID,
		Username: username,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: exp.Unix(),
		},
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "error while encoding token into signed string")
	}
	return ss, exp, nil
}

// Verify parses a signed token and returns its claims. Tokens signed with
// another method or key, expired tokens and tokens without a user id are
// rejected.
func (i *Issuer) Verify(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == 0 || claims.Username == "" {
		return nil, errors.New("token without identity")
	}
	return &claims, nil
}
