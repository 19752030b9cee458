package middleware

import (
	"fmt"
	"strings"

	"github.com/ArthurBash/telegramBot/pkg/apperr"
	"github.com/ArthurBash/telegramBot/pkg/logger"
	"github.com/ArthurBash/telegramBot/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminAuth validates HS256 bearer tokens for the administrative API.
// When no secret is configured the admin routes are disabled entirely
// rather than left open.
func AdminAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		if secret == "" {
			return response.Fail(c, fiber.StatusServiceUnavailable,
				apperr.CodeConfigError, "admin API disabled: no secret configured")
		}

		authHeader := c.Get("Authorization")
		var tokenString string
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
		if tokenString == "" {
			return response.Fail(c, fiber.StatusUnauthorized,
				apperr.CodeUnauthorized, "missing authorization")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unsupported signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.WithError(err).Warn("JWT validation failed")
			return response.Fail(c, fiber.StatusUnauthorized,
				apperr.CodeInvalidToken, "invalid token")
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, err := claims.GetSubject(); err == nil {
				c.Locals("admin_subject", sub)
			}
		}

		return c.Next()
	}
}
