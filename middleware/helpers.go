package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimSubject = "sub"
	jwtClaimRole    = "role"
)

var ErrNoClaims = errors.New("user claims not found in context")

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// GetSubjectFromContext returns the "sub" claim, used to attribute admin
// actions in logs.
func GetSubjectFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	sub, ok := claims[jwtClaimSubject].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimSubject)
	}
	return sub, nil
}

func GetUserRoleFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	role, ok := claims[jwtClaimRole].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}
	return role, nil
}
