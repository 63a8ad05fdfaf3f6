package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/janhq/image-generation-api/internal/domain/imagegen"
	"github.com/janhq/image-generation-api/internal/infrastructure/observability"
	"github.com/janhq/image-generation-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/image-generation-api/internal/utils/httpclients"
	"github.com/janhq/image-generation-api/internal/utils/platformerrors"
	"github.com/janhq/image-generation-api/pkg/telemetry"
)

// HealthServiceName is reported by the generate-image health check.
const HealthServiceName = "image-generation"

// HealthResponse is the liveness payload of GET /api/generate-image/health.
type HealthResponse struct {
	Status    string    `json:"status" example:"UP"`
	Service   string    `json:"service" example:"image-generation"`
	Timestamp time.Time `json:"timestamp"`
}

// Generation results reported in Outcome.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidBody     = "invalid_body"
	OutcomeInvalidRequest  = "invalid_request"
	OutcomeGenerationError = "generation_failed"
	OutcomeUnexpectedError = "unexpected_error"
)

// Outcome summarises one generate-image call for the access log.
type Outcome struct {
	Result     string
	ImageCount int
	PromptHash string
}

// ImageHandler validates generation requests and delegates them to a Generator.
type ImageHandler struct {
	generator imagegen.Generator
	validator *requests.Validator
	sanitizer *telemetry.Sanitizer
	log       zerolog.Logger
	now       func() time.Time
}

// NewImageHandler wires the handler with its generator.
func NewImageHandler(generator imagegen.Generator, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		generator: generator,
		validator: requests.NewValidator(),
		sanitizer: sanitizer,
		log:       log.With().Str("component", "image-handler").Logger(),
		now:       time.Now,
	}
}

// GenerateImage validates the request, calls the generator and picks the HTTP status.
func (h *ImageHandler) GenerateImage(ctx context.Context, body requests.ImageGenerationRequest) (int, *imagegen.GenerationResponse, Outcome) {
	ctx, span := observability.StartSpan(ctx, "ImageHandler.GenerateImage")
	defer span.End()

	prompt := deref(body.Prompt)
	outcome := Outcome{PromptHash: h.sanitizer.Fingerprint(prompt)}

	h.log.Info().
		Str("request_id", httpclients.RequestIDFromContext(ctx)).
		Str("prompt", h.sanitizer.SanitizePrompt(prompt)).
		Msg("Generating image")

	if fields := h.validator.Validate(body); len(fields) > 0 {
		validationErr := platformerrors.NewValidationError(ctx, fields)
		platformerrors.LogError(h.log, validationErr)
		observability.AddSpanAttributes(ctx, attribute.String("error.type", string(validationErr.Type)))
		outcome.Result = OutcomeInvalidRequest
		return platformerrors.ErrorTypeToHTTPStatus(validationErr.Type), imagegen.NewErrorResponse(validationErr.Message), outcome
	}

	req := body.ToDomain()
	observability.AddSpanAttributes(ctx,
		attribute.Int("image.num_images", req.NumImages),
		attribute.String("image.output_format", req.OutputFormat),
	)

	resp, err := h.delegate(ctx, req)
	if err != nil {
		internalErr := platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeInternal,
			"Unexpected error: "+causeMessage(err), err, "generate-image-unexpected")
		platformerrors.LogError(h.log, internalErr)
		observability.RecordError(ctx, err)
		outcome.Result = OutcomeUnexpectedError
		return http.StatusInternalServerError, imagegen.NewErrorResponse(internalErr.Message), outcome
	}

	if resp.IsError() {
		outcome.Result = OutcomeGenerationError
		return http.StatusInternalServerError, resp, outcome
	}
	outcome.Result = OutcomeSuccess
	outcome.ImageCount = len(resp.Images)
	return http.StatusOK, resp, outcome
}

// delegate calls the generator, turning a panic or a nil response into an error.
func (h *ImageHandler) delegate(ctx context.Context, req imagegen.GenerationRequest) (resp *imagegen.GenerationResponse, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%v", recovered)
		}
	}()

	resp, err = h.generator.Generate(ctx, req)
	if err == nil && resp == nil {
		err = fmt.Errorf("generator returned no response")
	}
	return resp, err
}

// Health reports liveness without touching the provider.
func (h *ImageHandler) Health() HealthResponse {
	return HealthResponse{
		Status:    "UP",
		Service:   HealthServiceName,
		Timestamp: h.now().UTC(),
	}
}

func causeMessage(err error) string {
	if platformErr := platformerrors.GetPlatformError(err); platformErr != nil {
		return platformErr.Message
	}
	return err.Error()
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
