package fal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/janhq/image-generation-api/internal/domain/imagegen"
)

// generateResponse is the provider success body. Every field is optional.
type generateResponse struct {
	Images          json.RawMessage `json:"images"`
	Timings         json.RawMessage `json:"timings"`
	Seed            *json.Number    `json:"seed"`
	HasNSFWConcepts []*bool         `json:"has_nsfw_concepts"`
	Prompt          *string         `json:"prompt"`
}

// mapGenerateResponse converts a provider body into the success variant.
// Problems inside a single image entry only null out that entry's fields.
func mapGenerateResponse(body []byte) (*imagegen.GenerationResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}
	if trimmed[0] != '{' {
		return nil, errors.New("response body is not a JSON object")
	}

	var parsed generateResponse
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return nil, err
	}

	images, err := mapImages(parsed.Images)
	if err != nil {
		return nil, err
	}

	seed, err := mapSeed(parsed.Seed)
	if err != nil {
		return nil, err
	}

	return imagegen.NewSuccessResponse(imagegen.SuccessResult{
		Images:          images,
		Timings:         parsed.Timings,
		Seed:            seed,
		HasNSFWConcepts: parsed.HasNSFWConcepts,
		Prompt:          parsed.Prompt,
	}), nil
}

func mapImages(raw json.RawMessage) ([]imagegen.GeneratedImage, error) {
	if isNull(raw) {
		return []imagegen.GeneratedImage{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("images is not a list: %w", err)
	}

	images := make([]imagegen.GeneratedImage, 0, len(entries))
	for _, entry := range entries {
		images = append(images, mapImage(entry))
	}
	return images, nil
}

func mapImage(raw json.RawMessage) imagegen.GeneratedImage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return imagegen.GeneratedImage{}
	}
	return imagegen.GeneratedImage{
		URL:         stringField(fields["url"]),
		Width:       intField(fields["width"]),
		Height:      intField(fields["height"]),
		ContentType: stringField(fields["content_type"]),
	}
}

func stringField(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return &value
}

// intField accepts positive JSON numbers only. Quoted numbers and
// non-positive dimensions are treated as missing.
func intField(raw json.RawMessage) *int {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) || trimmed[0] == '"' {
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return nil
	}
	value, ok := integral(number)
	if !ok || value < 1 || value > math.MaxInt32 {
		return nil
	}
	v := int(value)
	return &v
}

func mapSeed(number *json.Number) (*int64, error) {
	if number == nil {
		return nil, nil
	}
	value, ok := integral(*number)
	if !ok {
		return nil, fmt.Errorf("seed %s is not a 64-bit integer", number.String())
	}
	return &value, nil
}

// integral accepts integer literals and integral floats such as 1.2e9.
func integral(number json.Number) (int64, bool) {
	if value, err := number.Int64(); err == nil {
		return value, true
	}
	f, err := number.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
