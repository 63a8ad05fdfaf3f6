package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"github.com/janhq/image-generation-api/internal/domain/imagegen"
	"github.com/janhq/image-generation-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/image-generation-api/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/image-generation-api/internal/interfaces/httpserver/requests"
)

// generationResponse documents both variants of the generate-image body.
type generationResponse struct {
	Status          string                    `json:"status" example:"success" enums:"success,error"`
	Images          []imagegen.GeneratedImage `json:"images,omitempty"`
	Timings         map[string]any            `json:"timings,omitempty"`
	Seed            *int64                    `json:"seed,omitempty" example:"1234567890"`
	HasNSFWConcepts []*bool                   `json:"has_nsfw_concepts,omitempty"`
	Prompt          string                    `json:"prompt,omitempty" example:"A beautiful sunset"`
	Error           string                    `json:"error,omitempty" example:"FAL.ai API error (HTTP 429): Rate limit exceeded"`
}

var (
	requestSchemaOnce sync.Once
	requestSchema     *jsonschema.Schema
)

func registerImageRoutes(router gin.IRoutes, handler *handlers.ImageHandler) {
	router.POST("/generate-image", generateImage(handler))
	router.GET("/generate-image/health", health(handler))
	router.GET("/generate-image/schema", schema())
}

// generateImage godoc
// @Summary      Generate images
// @Description  Validates the request, forwards it to the configured FAL.ai model and maps the result.
// @Tags         image-generation
// @Accept       json
// @Produce      json
// @Param        request  body      requests.ImageGenerationRequest  true  "Generation request"
// @Success      200      {object}  generationResponse
// @Failure      400      {object}  generationResponse
// @Failure      500      {object}  generationResponse
// @Router       /api/generate-image [post]
func generateImage(handler *handlers.ImageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body requests.ImageGenerationRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			middlewares.SetGenerationOutcome(c, handlers.OutcomeInvalidBody, 0, "")
			c.JSON(http.StatusBadRequest, imagegen.NewErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		status, resp, outcome := handler.GenerateImage(c.Request.Context(), body)
		middlewares.SetGenerationOutcome(c, outcome.Result, outcome.ImageCount, outcome.PromptHash)
		c.JSON(status, resp)
	}
}

// health godoc
// @Summary      Image generation liveness
// @Description  Always returns UP; does not contact the provider.
// @Tags         image-generation
// @Produce      json
// @Success      200  {object}  handlers.HealthResponse
// @Router       /api/generate-image/health [get]
func health(handler *handlers.ImageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.Health())
	}
}

// schema godoc
// @Summary      Request JSON Schema
// @Description  JSON Schema of the generate-image request body.
// @Tags         image-generation
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/generate-image/schema [get]
func schema() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, RequestSchema())
	}
}

// RequestSchema reflects ImageGenerationRequest once.
func RequestSchema() *jsonschema.Schema {
	requestSchemaOnce.Do(func() {
		reflector := &jsonschema.Reflector{DoNotReference: true}
		requestSchema = reflector.Reflect(&requests.ImageGenerationRequest{})
		requestSchema.Title = "ImageGenerationRequest"
	})
	return requestSchema
}
