package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/image-generation-api/internal/domain/imagegen"
	"github.com/janhq/image-generation-api/pkg/telemetry"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Image *ImageHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(generator imagegen.Generator, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *Provider {
	return &Provider{
		Image: NewImageHandler(generator, sanitizer, log),
	}
}
