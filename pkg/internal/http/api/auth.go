package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

// authMiddleware verifies the identity provider's bearer token and stashes
// the decoded principal for the handlers. Every check below the routing layer
// assumes a principal is present.
func authMiddleware(c *fiber.Ctx) error {
	tokenStr, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || len(tokenStr) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(viper.GetString("identity.secret")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid bearer token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid bearer token")
	}
	subject, err := claims.GetSubject()
	if err != nil || len(subject) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid bearer token")
	}

	account := models.Account{ID: subject}
	if v, ok := claims["name"].(string); ok {
		account.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		account.Email = v
	}
	if v, ok := claims["avatar_url"].(string); ok {
		account.Avatar = &v
	}

	c.Locals("user", account)
	return c.Next()
}
