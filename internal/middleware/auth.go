// Package middleware provides authentication and request-context middleware.
package middleware

import (
	"strconv"
	"strings"

	"plume/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// userIDFromToken validates a bearer token and returns the user id from
// its "sub" claim. Returns 0 for missing or invalid tokens.
func userIDFromToken(c *fiber.Ctx) uint {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0
	}

	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0
	}
	return uint(userID)
}

// OptionalUser resolves the acting identity when a valid token is
// present and stores it in c.Locals("userID"). Anonymous requests pass
// through with no local set; pages render their public view.
func OptionalUser(c *fiber.Ctx) error {
	if userID := userIDFromToken(c); userID != 0 {
		c.Locals("userID", userID)
	}
	return c.Next()
}

// RequireLogin enforces authentication for mutating routes. Anonymous
// requests are redirected to the login page with the full original URL,
// query string included, in the next parameter, mirroring how a browser
// flow recovers the interrupted action after sign-in.
func RequireLogin(c *fiber.Ctx) error {
	userID := userIDFromToken(c)
	if userID == 0 {
		return c.Redirect(cfg.LoginURL+"?next="+c.OriginalURL(), fiber.StatusFound)
	}
	c.Locals("userID", userID)
	return c.Next()
}

// UserID returns the acting user id from the request, or 0 when the
// request is anonymous.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}
