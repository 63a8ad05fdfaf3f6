package fal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"resty.dev/v3"

	"github.com/janhq/image-generation-api/internal/config"
	"github.com/janhq/image-generation-api/internal/domain/imagegen"
	"github.com/janhq/image-generation-api/internal/infrastructure/metrics"
	"github.com/janhq/image-generation-api/internal/infrastructure/observability"
	"github.com/janhq/image-generation-api/internal/utils/httpclients"
	"github.com/janhq/image-generation-api/internal/utils/platformerrors"
	"github.com/janhq/image-generation-api/pkg/telemetry"
)

const defaultTimeout = 120 * time.Second

var _ imagegen.Generator = (*Client)(nil)

// Client forwards generation requests to a single FAL.ai model endpoint.
// It is immutable after construction and safe for concurrent use.
type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	modelID  string
	log      zerolog.Logger
}

// NewClient validates the provider settings and builds the client.
func NewClient(cfg *config.Config, log zerolog.Logger) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.FalAPIURL) == "" {
		return nil, platformerrors.NewConfigurationError("FAL API URL is not configured", nil)
	}

	timeout := defaultTimeout
	if cfg.FalTimeout > 0 {
		timeout = cfg.FalTimeout
	}

	log = log.With().Str("component", "fal-client").Logger()

	httpClient := httpclients.NewClient("FalClient", log)
	httpClient.SetTimeout(timeout)
	httpClient.SetRetryCount(0)

	client := &Client{
		http:     httpClient,
		endpoint: cfg.FalEndpoint(),
		apiKey:   cfg.FalAPIKey,
		modelID:  strings.Trim(cfg.FalModelID, "/"),
		log:      log,
	}

	log.Info().
		Str("endpoint", client.endpoint).
		Str("model_id", client.modelID).
		Str("api_key", telemetry.MaskSecret(client.apiKey)).
		Dur("timeout", timeout).
		Msg("FAL.ai client configured")
	if client.apiKey == "" {
		log.Warn().Msg("FAL_API_KEY is empty, provider calls will likely be rejected")
	}

	return client, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Generate implements imagegen.Generator. Provider, transport and mapping
// failures come back as the error variant with a nil error.
func (c *Client) Generate(ctx context.Context, req imagegen.GenerationRequest) (*imagegen.GenerationResponse, error) {
	ctx, span := observability.StartSpan(ctx, "fal.Generate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	observability.AddSpanAttributes(ctx,
		attribute.String("fal.model_id", c.modelID),
		attribute.Int("image.num_images", req.NumImages),
		attribute.String("image.output_format", req.OutputFormat),
		attribute.String("image.aspect_ratio", req.AspectRatio),
	)

	start := time.Now()
	resp, err := c.call(ctx, req)
	duration := time.Since(start).Seconds()

	if err != nil {
		observability.RecordError(ctx, err)

		var platformErr *platformerrors.PlatformError
		if !errors.As(err, &platformErr) {
			return nil, err
		}
		platformerrors.LogError(c.log, platformErr)
		metrics.RecordProviderCall(c.modelID, outcomeFor(platformErr.Type), duration)
		return imagegen.NewErrorResponse(platformErr.Message), nil
	}

	metrics.RecordProviderCall(c.modelID, metrics.OutcomeSuccess, duration)
	metrics.RecordGeneratedImages(c.modelID, req.OutputFormat, len(resp.Images))
	observability.AddSpanAttributes(ctx, attribute.Int("image.returned", len(resp.Images)))

	c.log.Debug().
		Str("request_id", httpclients.RequestIDFromContext(ctx)).
		Int("image_count", len(resp.Images)).
		Float64("duration_seconds", duration).
		Msg("FAL.ai response mapped")

	return resp, nil
}

func (c *Client) call(ctx context.Context, req imagegen.GenerationRequest) (*imagegen.GenerationResponse, error) {
	request := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Key "+c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(buildGenerateRequest(req))
	if requestID := httpclients.RequestIDFromContext(ctx); requestID != "" {
		request.SetHeader("X-Request-Id", requestID)
	}

	resp, err := request.Post(c.endpoint)
	if err != nil {
		return nil, platformerrors.NewTransportError(ctx, err)
	}

	respBytes := resp.Bytes()
	if resp.StatusCode() >= 400 {
		return nil, platformerrors.NewProviderError(ctx, resp.StatusCode(), string(respBytes))
	}

	result, err := mapGenerateResponse(respBytes)
	if err != nil {
		return nil, platformerrors.NewMappingError(ctx, err)
	}
	return result, nil
}

func outcomeFor(errorType platformerrors.ErrorType) string {
	switch errorType {
	case platformerrors.ErrorTypeProvider:
		return metrics.OutcomeProvider
	case platformerrors.ErrorTypeTransport:
		return metrics.OutcomeTransport
	default:
		return metrics.OutcomeMapping
	}
}
