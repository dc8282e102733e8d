// Package auth turns bearer tokens into actors. Tokens are HS256 JWTs whose
// subject is the user id; everything else about the actor is read from the
// database on every request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/domain/model/access"
	"cargo/internal/core/domain/model/kernel"
	"cargo/internal/pkg/errs"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens with a shared secret.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for userID. The identity provider issues production
// tokens; Issue serves tooling and tests.
func (t *Tokens) Issue(userID kernel.UUID, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks signature and expiry and returns the subject.
func (t *Tokens) Verify(token string) (kernel.UUID, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return kernel.UUID{}, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return kernel.UUID{}, ErrInvalidToken
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}
	return userID, nil
}

type actorQueryHandler interface {
	Handle(ctx context.Context, query queries.GetActorQuery) (access.Actor, error)
}

// Authenticator resolves the acting user of a token.
type Authenticator struct {
	tokens *Tokens
	actors actorQueryHandler
}

func NewAuthenticator(tokens *Tokens, actors actorQueryHandler) *Authenticator {
	return &Authenticator{tokens: tokens, actors: actors}
}

// Authenticate returns ErrMissingToken or ErrInvalidToken for bad tokens,
// and ErrInvalidToken as well when the subject is not a known user.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (access.Actor, error) {
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return access.Actor{}, err
	}

	query, err := queries.NewGetActorQuery(userID)
	if err != nil {
		return access.Actor{}, err
	}

	actor, err := a.actors.Handle(ctx, query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return access.Actor{}, fmt.Errorf("%w: unknown user %s", ErrInvalidToken, userID)
		}
		return access.Actor{}, err
	}
	return actor, nil
}
