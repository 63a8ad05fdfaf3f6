// Package swagger provides API documentation
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/generate-image": {
            "post": {
                "description": "Validates the request, forwards it to the configured FAL.ai model and maps the result.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["image-generation"],
                "summary": "Generate images",
                "parameters": [
                    {
                        "description": "Generation request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/requests.ImageGenerationRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.generationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.generationResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.generationResponse"}}
                }
            }
        },
        "/api/generate-image/health": {
            "get": {
                "description": "Always returns UP; does not contact the provider.",
                "produces": ["application/json"],
                "tags": ["image-generation"],
                "summary": "Image generation liveness",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/api/generate-image/schema": {
            "get": {
                "description": "JSON Schema of the generate-image request body.",
                "produces": ["application/json"],
                "tags": ["image-generation"],
                "summary": "Request JSON Schema",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "api.generationResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "error"], "example": "success"},
                "images": {"type": "array", "items": {"$ref": "#/definitions/imagegen.GeneratedImage"}},
                "timings": {"type": "object", "additionalProperties": true},
                "seed": {"type": "integer", "example": 1234567890},
                "has_nsfw_concepts": {"type": "array", "items": {"type": "boolean"}},
                "prompt": {"type": "string", "example": "A beautiful sunset"},
                "error": {"type": "string", "example": "FAL.ai API error (HTTP 429): Rate limit exceeded"}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "service": {"type": "string", "example": "image-generation"},
                "status": {"type": "string", "example": "UP"},
                "timestamp": {"type": "string"}
            }
        },
        "imagegen.GeneratedImage": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string"},
                "height": {"type": "integer"},
                "url": {"type": "string"},
                "width": {"type": "integer"}
            }
        },
        "requests.ImageGenerationRequest": {
            "description": "Image generation request forwarded to FAL.ai",
            "type": "object",
            "required": ["prompt", "num_images"],
            "properties": {
                "prompt": {"description": "Prompt is the text description of the desired image. Required.", "type": "string", "example": "A beautiful sunset over mountains"},
                "num_images": {"description": "NumImages is the number of images to generate, 1 to 4. Required.", "type": "integer", "minimum": 1, "maximum": 4, "example": 1},
                "enable_safety_checker": {"description": "EnableSafetyChecker defaults to true.", "type": "boolean", "example": true},
                "output_format": {"description": "OutputFormat is jpeg (default) or png.", "type": "string", "enum": ["jpeg", "png"], "example": "jpeg"},
                "safety_tolerance": {"description": "SafetyTolerance is \"1\", \"2\" (default) or \"3\".", "type": "string", "enum": ["1", "2", "3"], "example": "2"},
                "aspect_ratio": {"description": "AspectRatio defaults to 16:9.", "type": "string", "enum": ["1:1", "16:9", "9:16", "4:3", "3:4"], "example": "16:9"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Image Generation API",
	Description:      "Single-endpoint proxy for FAL.ai image generation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
