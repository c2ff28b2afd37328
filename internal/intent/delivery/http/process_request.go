package http

import (
	"github.com/gin-gonic/gin"
)

// processDetectReq binds and validates the detect request body.
func (h *handler) processDetectReq(c *gin.Context) (detectReq, error) {
	var req detectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}
