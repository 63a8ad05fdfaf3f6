package imagegen

import (
	"bytes"
	"encoding/json"
)

const (
	OutputFormatJPEG = "jpeg"
	OutputFormatPNG  = "png"

	DefaultEnableSafetyChecker = true
	DefaultOutputFormat        = OutputFormatJPEG
	DefaultSafetyTolerance     = "2"
	DefaultAspectRatio         = "16:9"

	MinNumImages = 1
	MaxNumImages = 4
)

// Allowed enum values, in the order they are documented.
var (
	OutputFormats    = []string{OutputFormatJPEG, OutputFormatPNG}
	SafetyTolerances = []string{"1", "2", "3"}
	AspectRatios     = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}
)

// GenerationRequest is a validated image generation request with defaults applied.
type GenerationRequest struct {
	Prompt              string
	NumImages           int
	EnableSafetyChecker bool
	OutputFormat        string
	SafetyTolerance     string
	AspectRatio         string
}

// NewGenerationRequest returns a request with every optional field defaulted.
func NewGenerationRequest(prompt string, numImages int) GenerationRequest {
	return GenerationRequest{
		Prompt:              prompt,
		NumImages:           numImages,
		EnableSafetyChecker: DefaultEnableSafetyChecker,
		OutputFormat:        DefaultOutputFormat,
		SafetyTolerance:     DefaultSafetyTolerance,
		AspectRatio:         DefaultAspectRatio,
	}
}

// Status discriminates the two response variants.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// GeneratedImage is one provider image. Fields the provider omitted or sent
// with the wrong type are nil and serialize as null.
type GeneratedImage struct {
	URL         *string `json:"url"`
	Width       *int    `json:"width"`
	Height      *int    `json:"height"`
	ContentType *string `json:"content_type"`
}

// GenerationResponse is either a success carrying images or an error carrying a message.
// Build it with NewSuccessResponse or NewErrorResponse.
type GenerationResponse struct {
	Status          Status
	Images          []GeneratedImage
	Timings         json.RawMessage
	Seed            *int64
	HasNSFWConcepts []*bool
	Prompt          *string
	Error           string
}

// SuccessResult carries the mapped provider fields. A nil entry in
// HasNSFWConcepts is a flag the provider left unknown.
type SuccessResult struct {
	Images          []GeneratedImage
	Timings         json.RawMessage
	Seed            *int64
	HasNSFWConcepts []*bool
	Prompt          *string
}

// NewSuccessResponse builds the success variant. Images is never nil.
func NewSuccessResponse(result SuccessResult) *GenerationResponse {
	images := result.Images
	if images == nil {
		images = []GeneratedImage{}
	}
	timings := result.Timings
	if len(bytes.TrimSpace(timings)) == 0 || bytes.Equal(bytes.TrimSpace(timings), []byte("null")) {
		timings = nil
	}
	return &GenerationResponse{
		Status:          StatusSuccess,
		Images:          images,
		Timings:         timings,
		Seed:            result.Seed,
		HasNSFWConcepts: result.HasNSFWConcepts,
		Prompt:          result.Prompt,
	}
}

// NewErrorResponse builds the error variant.
func NewErrorResponse(message string) *GenerationResponse {
	return &GenerationResponse{
		Status: StatusError,
		Error:  message,
	}
}

// IsError reports whether the response is the error variant.
func (r *GenerationResponse) IsError() bool {
	return r.Status == StatusError
}

type errorBody struct {
	Status Status `json:"status"`
	Error  string `json:"error"`
}

type successBody struct {
	Status  Status           `json:"status"`
	Images  []GeneratedImage `json:"images"`
	Timings json.RawMessage  `json:"timings,omitempty"`
	Seed    *int64           `json:"seed,omitempty"`
	Prompt  *string          `json:"prompt,omitempty"`
}

type successBodyWithNSFW struct {
	successBody
	HasNSFWConcepts []*bool `json:"has_nsfw_concepts"`
}

// MarshalJSON writes only the fields of the active variant.
func (r GenerationResponse) MarshalJSON() ([]byte, error) {
	if r.Status == StatusError {
		return json.Marshal(errorBody{Status: StatusError, Error: r.Error})
	}

	body := successBody{
		Status:  StatusSuccess,
		Images:  r.Images,
		Timings: r.Timings,
		Seed:    r.Seed,
		Prompt:  r.Prompt,
	}
	if body.Images == nil {
		body.Images = []GeneratedImage{}
	}
	// An explicit empty has_nsfw_concepts list is kept, a missing one is omitted.
	if r.HasNSFWConcepts != nil {
		return json.Marshal(successBodyWithNSFW{successBody: body, HasNSFWConcepts: r.HasNSFWConcepts})
	}
	return json.Marshal(body)
}
