package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	"github.com/andyriles/meal-ordering-service-backend/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens issues and verifies HS256 access tokens carrying the user id in
// "sub" and the role in "role".
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (t Tokens) Issue(u models.User) (string, time.Time, error) {
	ttl := t.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issued := time.Now()
	exp := issued.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	return signed, exp, nil
}

// Parse verifies a token and returns the caller it identifies.
func (t Tokens) Parse(raw string) (domain.RequestContext, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.RequestContext{}, domain.UnauthorizedError{}
	}

	var claims accessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.RequestContext{}, domain.UnauthorizedError{Msg: "token expired", Err: err}
		}
		return domain.RequestContext{}, domain.UnauthorizedError{Err: err}
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok || claims.Subject == "" {
		return domain.RequestContext{}, domain.UnauthorizedError{Err: fmt.Errorf("invalid claims")}
	}
	return domain.RequestContext{UserID: claims.Subject, Role: role}, nil
}
