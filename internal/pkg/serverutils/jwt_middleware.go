package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// NewJwtMiddleware guards a route group with bearer token auth. Claims
// "user_id" and "tenant_id" are exposed through ctx.Locals so handlers
// can cross-check them against request bodies.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing or malformed token"))
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid or expired token"))
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if userId, ok := claims["user_id"].(string); ok {
				ctx.Locals("user_id", userId)
			}
			if tenantId, ok := claims["tenant_id"].(string); ok {
				ctx.Locals("tenant_id", tenantId)
			}
		}
		return ctx.Next()
	}
}
