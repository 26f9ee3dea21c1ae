package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterPreflightRoutes answers CORS preflight on every path with an empty 200.
func RegisterPreflightRoutes(r gin.IRoutes) {
	r.OPTIONS("/*path", func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Status(http.StatusOK)
	})
}

// MethodNotAllowed is installed as both NoRoute and NoMethod handler, so every
// method other than POST and OPTIONS gets a plain-text 405.
func MethodNotAllowed(c *gin.Context) {
	c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
}
