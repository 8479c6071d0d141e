// Package authz provides authentication middleware for the public API.
package authz

import (
	"net/http"
	"strings"

	"github.com/stylevault/stylevault/pkg/auth"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// ClaimsKey is the context key for storing JWT claims.
const ClaimsKey = "claims"

// Authenticate creates middleware that validates Bearer tokens from the
// Authorization header. Valid claims are stored in both the router context
// and the request context; invalid or missing tokens get 401.
func Authenticate(validator auth.JWTValidator) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "missing authorization header",
				})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "invalid authorization header format",
				})
			}

			claims, err := validator.Validate(c.Request().Context(), parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "invalid token",
				})
			}

			c.Set(ClaimsKey, claims)

			ctx := auth.WithClaims(c.Request().Context(), claims)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// OwnerID returns the authenticated subject for the current request.
// Handlers use it as the record owner; empty means unauthenticated.
func OwnerID(c router.Context) string {
	claimsValue := c.Get(ClaimsKey)
	if claimsValue == nil {
		return ""
	}

	claims, ok := claimsValue.(*auth.Claims)
	if !ok || claims == nil {
		return ""
	}

	return claims.Subject
}
