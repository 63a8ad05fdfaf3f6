package telemetry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePromptMode(t *testing.T) {
	tests := []struct {
		input    string
		expected PromptMode
		wantErr  bool
	}{
		{"full", PromptModeFull, false},
		{" Hashed ", PromptModeHashed, false},
		{"NONE", PromptModeNone, false},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParsePromptMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}

func TestSanitizePrompt_None(t *testing.T) {
	s := NewSanitizer(PromptModeNone, "image-generation-api")
	assert.Equal(t, "[REDACTED]", s.SanitizePrompt("A beautiful sunset"))
}

func TestSanitizePrompt_Full(t *testing.T) {
	s := NewSanitizer(PromptModeFull, "image-generation-api")
	assert.Equal(t, "A beautiful sunset by john@example.com", s.SanitizePrompt("A beautiful sunset by john@example.com"))
}

func TestSanitizePrompt_Hashed(t *testing.T) {
	s := NewSanitizer(PromptModeHashed, "image-generation-api")
	result := s.SanitizePrompt("Poster for john.doe@example.com, call 555-123-4567, card 4111 1111 1111 1111")

	assert.NotContains(t, result, "john.doe@example.com")
	assert.NotContains(t, result, "555-123-4567")
	assert.NotContains(t, result, "4111 1111 1111 1111")
	assert.Contains(t, result, "[EMAIL:")
	assert.Contains(t, result, "[PHONE:")
	assert.Contains(t, result, "[CC:REDACTED]")
	assert.True(t, strings.HasPrefix(result, "Poster for "))
}

func TestSanitizePrompt_HashIsStable(t *testing.T) {
	s := NewSanitizer(PromptModeHashed, "salt")
	assert.Equal(t, s.SanitizePrompt("mail a@b.io"), s.SanitizePrompt("mail a@b.io"))

	other := NewSanitizer(PromptModeHashed, "other-salt")
	assert.NotEqual(t, s.SanitizePrompt("mail a@b.io"), other.SanitizePrompt("mail a@b.io"))
}

func TestSanitizePrompt_Truncates(t *testing.T) {
	s := NewSanitizer(PromptModeFull, "salt")
	long := strings.Repeat("a", 250)

	result := s.SanitizePrompt(long)
	assert.Equal(t, strings.Repeat("a", 200)+"...", result)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "NULL", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("abc"))
	assert.Equal(t, "***7890", MaskSecret("key-1234567890"))
}

func TestFingerprint(t *testing.T) {
	s := NewSanitizer(PromptModeNone, "image-generation-api")

	first := s.Fingerprint("A beautiful sunset")
	assert.Len(t, first, 8)
	assert.Equal(t, first, s.Fingerprint("A beautiful sunset"))
	assert.NotEqual(t, first, s.Fingerprint("A beautiful sunrise"))
	assert.NotEqual(t, first, NewSanitizer(PromptModeNone, "other-salt").Fingerprint("A beautiful sunset"))
	assert.Empty(t, s.Fingerprint(""))
}
