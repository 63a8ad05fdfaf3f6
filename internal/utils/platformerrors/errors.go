package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/image-generation-api/internal/utils/httpclients"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION"
	ErrorTypeProvider      ErrorType = "PROVIDER"
	ErrorTypeTransport     ErrorType = "TRANSPORT"
	ErrorTypeMapping       ErrorType = "MAPPING"
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"
	ErrorTypeInternal      ErrorType = "INTERNAL"
)

// Layer represents the application layer where the error occurred
type Layer string

const (
	LayerConfig         Layer = "config"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerRoute          Layer = "route"
	LayerInfrastructure Layer = "infrastructure"
)

// PlatformError represents an error with context and metadata
type PlatformError struct {
	Code      string
	Type      ErrorType
	Message   string
	Err       error
	Layer     Layer
	RequestID string
	Timestamp time.Time

	// Fields maps request field names to validation messages.
	Fields map[string]string
	// StatusCode and Body are set for provider errors.
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s][%s] %s: %v", e.Layer, e.Type, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s][%s] %s", e.Layer, e.Type, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewError creates a new PlatformError with the specified parameters
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, code string) *PlatformError {
	return &PlatformError{
		Code:      code,
		Type:      errorType,
		Message:   message,
		Err:       err,
		Layer:     layer,
		RequestID: httpclients.RequestIDFromContext(ctx),
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError builds a VALIDATION error carrying a field to message mapping.
func NewValidationError(ctx context.Context, fields map[string]string) *PlatformError {
	err := NewError(ctx, LayerHandler, ErrorTypeValidation, FormatValidationMessage(fields), nil, "request-validation")
	err.Fields = fields
	return err
}

// NewProviderError builds a PROVIDER error for a non-success HTTP status.
func NewProviderError(ctx context.Context, statusCode int, body string) *PlatformError {
	err := NewError(ctx, LayerInfrastructure, ErrorTypeProvider,
		fmt.Sprintf("FAL.ai API error (HTTP %d): %s", statusCode, body),
		nil, "fal-provider-http-error")
	err.StatusCode = statusCode
	err.Body = body
	return err
}

// NewTransportError builds a TRANSPORT error for failures reaching the provider.
func NewTransportError(ctx context.Context, cause error) *PlatformError {
	return NewError(ctx, LayerInfrastructure, ErrorTypeTransport,
		fmt.Sprintf("Error calling FAL.ai API: %v", cause),
		cause, "fal-transport-error")
}

// NewMappingError builds a MAPPING error for provider bodies of the wrong shape.
func NewMappingError(ctx context.Context, cause error) *PlatformError {
	return NewError(ctx, LayerInfrastructure, ErrorTypeMapping,
		fmt.Sprintf("Error processing FAL.ai response: %v", cause),
		cause, "fal-mapping-error")
}

// NewConfigurationError builds a CONFIGURATION error. These are fatal at startup.
func NewConfigurationError(message string, err error) *PlatformError {
	return NewError(context.Background(), LayerConfig, ErrorTypeConfiguration, message, err, "configuration")
}

// FormatValidationMessage renders fields as "Validation failed: {a=msg, b=msg}" with sorted keys.
func FormatValidationMessage(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fields[k])
	}
	return "Validation failed: {" + strings.Join(parts, ", ") + "}"
}

// GetPlatformError extracts a PlatformError from the error chain.
func GetPlatformError(err error) *PlatformError {
	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return platformErr
	}
	return nil
}

// IsErrorType checks if an error is a PlatformError with the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	platformErr := GetPlatformError(err)
	return platformErr != nil && platformErr.Type == errorType
}

// ErrorTypeToHTTPStatus maps error types to HTTP status codes
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// LogError logs a platform error with proper structure
func LogError(logger zerolog.Logger, err *PlatformError) {
	if err == nil {
		return
	}

	event := logger.Error()
	if err.Type == ErrorTypeValidation {
		event = logger.Warn()
	}

	event = event.
		Str("error_code", err.Code).
		Str("error_type", string(err.Type)).
		Str("layer", string(err.Layer)).
		Time("timestamp_utc", err.Timestamp)

	if err.RequestID != "" {
		event = event.Str("request_id", err.RequestID)
	}
	if err.StatusCode != 0 {
		event = event.Int("provider_status", err.StatusCode)
	}
	if len(err.Fields) > 0 {
		event = event.Interface("fields", err.Fields)
	}
	if err.Err != nil {
		event = event.Err(err.Err)
	}

	event.Msg(err.Message)
}
