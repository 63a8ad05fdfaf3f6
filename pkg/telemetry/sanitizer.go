package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// PromptMode controls how much of a user prompt reaches the logs
type PromptMode string

const (
	// PromptModeNone redacts the whole prompt
	PromptModeNone PromptMode = "none"
	// PromptModeHashed hashes detected PII and keeps the rest
	PromptModeHashed PromptMode = "hashed"
	// PromptModeFull logs the prompt verbatim
	PromptModeFull PromptMode = "full"
)

// ParsePromptMode validates a configured prompt mode.
func ParsePromptMode(value string) (PromptMode, error) {
	mode := PromptMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case PromptModeNone, PromptModeHashed, PromptModeFull:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported prompt mode %q", value)
	}
}

// Sanitizer prepares user content and secrets for logs and span attributes
type Sanitizer struct {
	mode      PromptMode
	salt      string
	maxLength int

	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
	creditCardPattern *regexp.Regexp
	ipv4Pattern       *regexp.Regexp
}

// NewSanitizer creates a sanitizer. salt keeps hashes stable per deployment.
func NewSanitizer(mode PromptMode, salt string) *Sanitizer {
	return &Sanitizer{
		mode:              mode,
		salt:              salt,
		maxLength:         200,
		emailPattern:      regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phonePattern:      regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		creditCardPattern: regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),
		ipv4Pattern:       regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	}
}

// SanitizePrompt returns the prompt in the form allowed by the configured mode,
// truncated for log readability.
func (s *Sanitizer) SanitizePrompt(prompt string) string {
	switch s.mode {
	case PromptModeNone:
		return "[REDACTED]"
	case PromptModeFull:
		return truncate(prompt, s.maxLength)
	default:
		return truncate(s.hashPII(prompt), s.maxLength)
	}
}

// Fingerprint returns a short salted hash of the whole prompt so requests can be
// correlated in logs without storing the text. Empty prompts have no fingerprint.
func (s *Sanitizer) Fingerprint(prompt string) string {
	if prompt == "" {
		return ""
	}
	return s.hash(prompt)
}

func (s *Sanitizer) hashPII(input string) string {
	result := s.creditCardPattern.ReplaceAllString(input, "[CC:REDACTED]")
	result = s.emailPattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", s.hash(match))
	})
	result = s.phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", s.hash(match))
	})
	result = s.ipv4Pattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[IP:%s]", s.hash(match))
	})
	return result
}

func (s *Sanitizer) hash(data string) string {
	h := sha256.New()
	h.Write([]byte(data + s.salt))
	return hex.EncodeToString(h.Sum(nil))[:8]
}

// MaskSecret keeps only the last four characters of a credential.
func MaskSecret(secret string) string {
	if secret == "" {
		return "NULL"
	}
	if len(secret) <= 4 {
		return "***"
	}
	return "***" + secret[len(secret)-4:]
}

func truncate(value string, maxLen int) string {
	runes := []rune(value)
	if maxLen <= 0 || len(runes) <= maxLen {
		return value
	}
	return string(runes[:maxLen]) + "..."
}
