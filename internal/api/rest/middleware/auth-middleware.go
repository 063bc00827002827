package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/helper"
	"github.com/procline/error_service/internal/services"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals("userID", user.UserID)
		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// RequireOperation gates a route on the central access policy instead of
// ad-hoc role string checks per handler.
func RequireOperation(policy services.AccessPolicy, operation string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		actor := ActorFromCtx(ctx)
		if actor.ID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		if !policy.Allowed(actor.Role, operation) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}
		return ctx.Next()
	}
}

// ActorFromCtx builds the workflow actor from the verified token claims
// plus the request origin recorded in audit entries.
func ActorFromCtx(ctx *fiber.Ctx) services.Actor {
	actor := services.Actor{
		IPAddress: ctx.IP(),
		UserAgent: ctx.Get("User-Agent"),
	}
	if claims, ok := ctx.Locals("user").(dto.AuthResponse); ok {
		actor.ID = claims.UserID
		actor.Role = claims.Role
	}
	return actor
}
