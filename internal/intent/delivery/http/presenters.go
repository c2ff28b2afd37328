package http

import (
	"university-intent-service/internal/model"
)

// --- Request DTOs ---

type detectReq struct {
	Query string `json:"query" binding:"required,min=1,max=2000"`
}

// --- Response DTOs ---

type detectResp struct {
	IntentID   string        `json:"intent_id"`
	Routing    string        `json:"routing"`
	Tools      []string      `json:"tools"`
	Confidence float64       `json:"confidence"`
	Method     string        `json:"method"`
	Quality    model.Quality `json:"quality"`
}

func newDetectResp(result model.DetectionResult) detectResp {
	return detectResp{
		IntentID:   result.IntentID,
		Routing:    string(result.Routing),
		Tools:      result.Tools,
		Confidence: result.Confidence,
		Method:     string(result.Method),
		Quality:    model.ClassifyConfidence(result.Confidence),
	}
}
