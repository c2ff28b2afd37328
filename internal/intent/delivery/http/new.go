package http

import (
	"github.com/gin-gonic/gin"

	"university-intent-service/internal/intent"
	pkgLog "university-intent-service/pkg/log"
)

// Handler is the public interface for the intent HTTP delivery layer.
type Handler interface {
	Detect(c *gin.Context)
	ReloadRules(c *gin.Context)
}

type handler struct {
	l  pkgLog.Logger
	uc intent.UseCase
}

// New creates a new HTTP handler for the intent domain.
func New(l pkgLog.Logger, uc intent.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
