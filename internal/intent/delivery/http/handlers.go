package http

import (
	"github.com/gin-gonic/gin"

	"university-intent-service/pkg/response"
)

// Detect godoc
// @Summary     Detect query intent
// @Description Classifies a free-text query into an intent with routing, confidence and quality tier.
// @Tags        Intent
// @Accept      json
// @Produce     json
// @Param       body body detectReq true "Query to classify"
// @Success     200 {object} detectResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     503 {object} response.Resp "Rule data still loading"
// @Router      /api/v1/intent/detect [POST]
func (h *handler) Detect(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.uc.IsReady() {
		response.ServiceUnavailable(c, "intent rules are still loading")
		return
	}

	req, err := h.processDetectReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	// DetectIntent never fails; worst case is a low-confidence fallback.
	result := h.uc.DetectIntent(ctx, req.Query)

	response.OK(c, newDetectResp(result))
}

// ReloadRules godoc
// @Summary     Reload intent rules
// @Description Re-reads the rule payload and swaps it in without downtime.
// @Tags        Intent
// @Produce     json
// @Success     200 {object} response.Resp
// @Failure     500 {object} response.Resp "Reload failed, previous rules stay active"
// @Router      /api/v1/intent/rules/reload [POST]
func (h *handler) ReloadRules(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.uc.ReloadRules(ctx); err != nil {
		h.l.Errorf(ctx, "uc.ReloadRules: %v", err)
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
