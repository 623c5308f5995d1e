package middleware

import (
	"strings"

	"tastebook/domain"
	"tastebook/internal/api/presenters"
	"tastebook/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		StaffMiddleware() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity in Locals under "user_id" and "is_staff".
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedAuth, err)
		}

		userID, isStaff, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedAuth, err)
		}

		c.Locals("user_id", userID)
		c.Locals("is_staff", isStaff)
		return c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a token is present but lets
// anonymous requests through. Visibility scoping downstream treats a missing
// user_id as an anonymous viewer.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return c.Next()
		}

		userID, isStaff, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return c.Next()
		}

		c.Locals("user_id", userID)
		c.Locals("is_staff", isStaff)
		return c.Next()
	}
}

// StaffMiddleware must run after AuthMiddleware.
func (m *middleware) StaffMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isStaff, ok := c.Locals("is_staff").(bool)
		if !ok || !isStaff {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedAuth, domain.ErrNotStaff)
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", domain.ErrTokenNotFound
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", domain.ErrTokenInvalid
	}
	return token, nil
}
