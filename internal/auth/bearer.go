package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/sms-wecom-relay/internal/models"
)

// BearerMiddleware requires "Authorization: Bearer <token>" to match exactly.
// The header is not trimmed or case-folded.
func BearerMiddleware(token string) gin.HandlerFunc {
	want := []byte("Bearer " + token)

	return func(c *gin.Context) {
		got := []byte(c.GetHeader("Authorization"))
		if token == "" || subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{
				Success: false,
				Message: "Unauthorized",
			})
			return
		}
		c.Next()
	}
}
