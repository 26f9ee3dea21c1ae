package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/PratikDhanave/sms-wecom-relay/internal/apperr"
	"github.com/PratikDhanave/sms-wecom-relay/internal/models"
	"github.com/PratikDhanave/sms-wecom-relay/internal/relay"
)

// RegisterForwardRoutes registers the relay endpoint on every path.
//
// POST /*path[?debug=true]
// - Requires Authorization: Bearer <token> (enforced by the group middleware)
// - 200 forwarded or duplicate skipped, 400 empty content, 500 anything else
func RegisterForwardRoutes(r gin.IRoutes, svc *relay.Service, logger zerolog.Logger) {
	r.POST("/*path", func(c *gin.Context) {
		var req models.ForwardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, logger, apperr.BadPayload(err))
			return
		}

		debug := c.Query("debug") == "true"

		out, err := svc.Forward(c.Request.Context(), req, debug)
		if err != nil {
			writeError(c, logger, err)
			return
		}

		if out.Duplicate {
			c.JSON(http.StatusOK, models.ForwardResponse{
				Success: true,
				Message: "Duplicate skipped",
			})
			return
		}

		c.JSON(http.StatusOK, models.ForwardResponse{
			Success:       true,
			Message:       "forwarded",
			WeComResponse: out.Response,
		})
	})
}

// writeError renders client errors as {success,message} and everything else as {success,error}.
func writeError(c *gin.Context, logger zerolog.Logger, err error) {
	status := apperr.Status(err)

	if status < http.StatusInternalServerError {
		c.JSON(status, models.MessageResponse{Success: false, Message: apperr.Message(err)})
		return
	}

	logger.Error().
		Err(err).
		Str("text_code", apperr.TextCode(err)).
		Str("path", c.Request.URL.Path).
		Msg("forward failed")

	c.JSON(status, models.ErrorResponse{Success: false, Error: apperr.Message(err)})
}
