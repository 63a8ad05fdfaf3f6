package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/image-generation-api/internal/domain/imagegen"
)

// Recovery turns a panic anywhere in the chain into a 500 error-variant body.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Str("request_id", RequestIDFromContext(c)).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Msg("recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			imagegen.NewErrorResponse(fmt.Sprintf("An unexpected error occurred: %v", recovered)))
	})
}
