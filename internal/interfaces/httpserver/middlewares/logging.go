package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	generationResultKey     = "generation.result"
	generationImageCountKey = "generation.image_count"
	generationPromptHashKey = "generation.prompt_hash"
)

// SetGenerationOutcome attaches the generate-image result to the request so
// the access log line can report it.
func SetGenerationOutcome(c *gin.Context, result string, imageCount int, promptHash string) {
	c.Set(generationResultKey, result)
	c.Set(generationImageCountKey, imageCount)
	if promptHash != "" {
		c.Set(generationPromptHashKey, promptHash)
	}
}

// LoggingMiddleware writes one line per request. Generate-image calls also
// carry their outcome, image count and prompt fingerprint.
func LoggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := eventForStatus(logger, status).
			Str("request_id", RequestIDFromContext(c)).
			Str("method", c.Request.Method).
			Str("route", routeOf(c)).
			Int("status", status).
			Dur("latency", time.Since(start))

		if spanCtx := trace.SpanFromContext(c.Request.Context()).SpanContext(); spanCtx.IsValid() {
			event = event.
				Str("trace_id", spanCtx.TraceID().String()).
				Str("span_id", spanCtx.SpanID().String())
		}
		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.String())
		}

		result := c.GetString(generationResultKey)
		if result == "" {
			event.Msg("request completed")
			return
		}

		event = event.
			Str("generation_result", result).
			Int("image_count", c.GetInt(generationImageCountKey))
		if hash := c.GetString(generationPromptHashKey); hash != "" {
			event = event.Str("prompt_hash", hash)
		}
		event.Msg("generate-image completed")
	}
}

func eventForStatus(logger zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return logger.Error()
	case status >= 400:
		return logger.Warn()
	default:
		return logger.Info()
	}
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return c.Request.URL.Path
}
