package requests

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/janhq/image-generation-api/internal/domain/imagegen"
)

// ImageGenerationRequest is the POST /api/generate-image body.
// Optional fields are pointers so an absent or null value can be defaulted.
// @Description Image generation request forwarded to FAL.ai
type ImageGenerationRequest struct {
	// Prompt is the text description of the desired image. Required.
	Prompt *string `json:"prompt" validate:"required,notblank" example:"A beautiful sunset over mountains" jsonschema:"minLength=1" jsonschema_description:"Text description of the desired image"`

	// NumImages is the number of images to generate, 1 to 4. Required.
	NumImages *int `json:"num_images" validate:"required,min=1,max=4" example:"1" jsonschema:"minimum=1,maximum=4"`

	// EnableSafetyChecker defaults to true.
	EnableSafetyChecker *bool `json:"enable_safety_checker,omitempty" example:"true" jsonschema:"default=true"`

	// OutputFormat is jpeg (default) or png.
	OutputFormat *string `json:"output_format,omitempty" validate:"omitempty,oneof=jpeg png" example:"jpeg" jsonschema:"enum=jpeg,enum=png,default=jpeg"`

	// SafetyTolerance is "1", "2" (default) or "3".
	SafetyTolerance *string `json:"safety_tolerance,omitempty" validate:"omitempty,oneof=1 2 3" example:"2" jsonschema:"enum=1,enum=2,enum=3,default=2"`

	// AspectRatio defaults to 16:9.
	AspectRatio *string `json:"aspect_ratio,omitempty" validate:"omitempty,oneof=1:1 16:9 9:16 4:3 3:4" example:"16:9" jsonschema:"enum=1:1,enum=16:9,enum=9:16,enum=4:3,enum=3:4,default=16:9"`
}

// ToDomain applies defaults for absent optional fields. Call it after Validate.
func (r ImageGenerationRequest) ToDomain() imagegen.GenerationRequest {
	req := imagegen.NewGenerationRequest(deref(r.Prompt), deref(r.NumImages))
	if r.EnableSafetyChecker != nil {
		req.EnableSafetyChecker = *r.EnableSafetyChecker
	}
	if r.OutputFormat != nil {
		req.OutputFormat = *r.OutputFormat
	}
	if r.SafetyTolerance != nil {
		req.SafetyTolerance = *r.SafetyTolerance
	}
	if r.AspectRatio != nil {
		req.AspectRatio = *r.AspectRatio
	}
	return req
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// fieldMessages maps json field name and failed tag to the message returned to callers.
var fieldMessages = map[string]map[string]string{
	"prompt": {
		"required": "Prompt is required",
		"notblank": "Prompt is required",
	},
	"num_images": {
		"required": "Number of images is required",
		"min":      "Number of images must be at least 1",
		"max":      "Number of images cannot exceed 4",
	},
	"output_format": {
		"oneof": "Output format must be one of: " + strings.Join(imagegen.OutputFormats, ", "),
	},
	"safety_tolerance": {
		"oneof": "Safety tolerance must be one of: " + strings.Join(imagegen.SafetyTolerances, ", "),
	},
	"aspect_ratio": {
		"oneof": "Aspect ratio must be one of: " + strings.Join(imagegen.AspectRatios, ", "),
	},
}

// Validator checks ImageGenerationRequest and reports failures per json field.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator that names fields by their json tag.
func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Validator{validate: validate}
}

// Validate returns a field to message map, empty when the request is valid.
func (v *Validator) Validate(req ImageGenerationRequest) map[string]string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return map[string]string{"request": err.Error()}
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		name := fieldErr.Field()
		if _, exists := fields[name]; exists {
			continue
		}
		if msg, ok := fieldMessages[name][fieldErr.Tag()]; ok {
			fields[name] = msg
			continue
		}
		fields[name] = "is invalid (" + fieldErr.Tag() + ")"
	}
	return fields
}
