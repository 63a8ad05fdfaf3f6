package fal

import "github.com/janhq/image-generation-api/internal/domain/imagegen"

// generateRequest is the body posted to <baseUrl>/<modelId>. Every key is always sent.
type generateRequest struct {
	Prompt              string `json:"prompt"`
	NumImages           int    `json:"num_images"`
	EnableSafetyChecker bool   `json:"enable_safety_checker"`
	OutputFormat        string `json:"output_format"`
	SafetyTolerance     string `json:"safety_tolerance"`
	AspectRatio         string `json:"aspect_ratio"`
}

func buildGenerateRequest(req imagegen.GenerationRequest) generateRequest {
	return generateRequest{
		Prompt:              req.Prompt,
		NumImages:           req.NumImages,
		EnableSafetyChecker: req.EnableSafetyChecker,
		OutputFormat:        req.OutputFormat,
		SafetyTolerance:     req.SafetyTolerance,
		AspectRatio:         req.AspectRatio,
	}
}
