package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	intentHTTP "university-intent-service/internal/intent/delivery/http"
	"university-intent-service/internal/middleware"
)

// setupIntentDomain wires the intent domain routes. The usecase is
// built in main (it loads the rule table and owns the vector and cache
// clients); the server only attaches the HTTP surface.
func (srv *HTTPServer) setupIntentDomain(ctx context.Context, api *gin.RouterGroup) error {
	mw := middleware.New(srv.l, srv.rateLimit)

	h := intentHTTP.New(srv.l, srv.intentUC)

	// Registers /api/v1/intent/detect and /api/v1/intent/rules/reload.
	intentHTTP.RegisterRoutes(api, h, mw)

	srv.l.Infof(ctx, "Intent domain registered")
	return nil
}
