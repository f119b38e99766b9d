package middleware

import (
	"net/http"
	"strings"

	"classifieds-service/internal/model"
	"classifieds-service/pkg/jwtutil"
	"classifieds-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const actorKey = "actor"

// AuthMiddleware validates the JWT token and puts the authenticated actor
// in the request context. Role checks belong to the core's authorization
// policy, not to routing.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		role := model.Role(claims.Role)
		if role != model.RoleAdmin {
			role = model.RoleUser
		}

		actor := model.Actor{UserID: claims.UserID, Role: role}
		c.Set(actorKey, actor)

		log.Info("Request authenticated",
			zap.Uint("user_id", actor.UserID),
			zap.String("role", string(actor.Role)))

		return next(c)
	}
}

// ActorFromContext retrieves the authenticated actor from the context.
func ActorFromContext(c echo.Context) (model.Actor, bool) {
	actor, ok := c.Get(actorKey).(model.Actor)
	return actor, ok
}
