package tokens

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the lifetime of every issued token.
const TTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type Option func(*Service)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service signs and verifies HS256 access tokens with a single secret.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret []byte, opts ...Option) *Service {
	s := &Service{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for the subject that expires TTL after issuance.
func (s *Service) Issue(subjectID, username string, roles []string) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, errors.New("issue token: empty subject")
	}
	issuedAt := s.now()
	expiresAt := issuedAt.Add(TTL)

	claims := Claims{
		Username: username,
		Roles:    slices.Clone(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify checks the signature and expiry of token and returns the identity
// it carries. Every failure is reported as ErrInvalidToken.
func (s *Service) Verify(token string) (*Identity, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}
	return claims.Identity(), nil
}

// Decode reads the claims of token without checking its signature or
// expiry, and returns nil when the token cannot be parsed. Callers must only
// pass tokens that Verify already accepted earlier in the same request.
func (s *Service) Decode(token string) *Claims {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.Subject == "" {
		return nil
	}
	return &claims
}
