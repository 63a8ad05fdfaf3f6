package imagegen

import "context"

// Generator produces images for a validated request.
//
// Provider, transport and mapping failures are returned as the error variant
// with a nil error. A non-nil error means the call failed in an unexpected way.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
}
