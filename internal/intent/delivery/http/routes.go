package http

import (
	"github.com/gin-gonic/gin"

	"university-intent-service/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	ig := rg.Group("/intent")
	{
		ig.POST("/detect", mw.RateLimit(), h.Detect)
		ig.POST("/rules/reload", mw.RateLimit(), h.ReloadRules)
	}
}
