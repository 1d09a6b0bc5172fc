package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/WesleyFreitsz/FitMindAI/internal"
	"github.com/WesleyFreitsz/FitMindAI/internal/storage"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func resolveUser(c *gin.Context, provider Provider, users storage.UserRepository) *internal.User {
	token := bearerToken(c)
	if token == "" {
		return nil
	}
	userID, err := provider.ValidateToken(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	user, err := users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// Middleware rejects requests without a valid bearer token and puts the
// resolved user into the gin context.
func Middleware(provider Provider, users storage.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, provider, users)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Não autorizado"})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// GuestUser is the profile used for unauthenticated chat and parse requests,
// so the AI pipeline always has plausible metabolic context.
func GuestUser() *internal.User {
	return &internal.User{
		ID:            internal.GuestUserID,
		Name:          "Convidado",
		Age:           25,
		Sex:           internal.SexMale,
		Weight:        70,
		Height:        175,
		Goal:          internal.GoalMaintain,
		ActivityLevel: internal.ActivityModerate,
	}
}

// OptionalMiddleware resolves the user when a valid token is present and
// falls back to the guest profile otherwise. Used by the public chat
// endpoints.
func OptionalMiddleware(provider Provider, users storage.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c, provider, users); user != nil {
			c.Set("user", user)
		} else {
			c.Set("user", GuestUser())
		}
		c.Next()
	}
}
