package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MananRajppout/newamplify/internal/common"
	"github.com/MananRajppout/newamplify/internal/services"

	"github.com/labstack/echo/v4"
)

// SessionMiddleware validates the Bearer session token and places the
// authenticated user id and role into the request context.
func SessionMiddleware(tokenSvc services.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := tokenSvc.VerifySessionToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, common.ErrInvalidToken.Error())
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
