package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPrompt is wrapped by every rejection so callers can map the
// whole family to one error code.
var ErrInvalidPrompt = errors.New("invalid prompt")

var (
	codeBlockPattern    = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern   = regexp.MustCompile("`[^`]+`")
	urlPattern          = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	controlCharsPattern = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")

	injectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ignore (all|previous|prior) instructions`),
		regexp.MustCompile(`(?i)system prompt`),
		regexp.MustCompile(`(?i)developer message`),
		regexp.MustCompile(`(?i)jailbreak`),
	}
)

// Sanitize validates and normalizes free text before it is sent to the LLM.
// Injection phrases are checked before code spans are stripped, so wrapping
// one in backticks does not hide it. Already-clean input comes back
// byte-for-byte unchanged.
func Sanitize(prompt string) (string, error) {
	if controlCharsPattern.MatchString(prompt) {
		return "", fmt.Errorf("%w: prompt contains unsupported control characters", ErrInvalidPrompt)
	}
	if urlPattern.MatchString(prompt) {
		return "", fmt.Errorf("%w: prompt must not include URLs", ErrInvalidPrompt)
	}
	if err := checkInjection(prompt); err != nil {
		return "", err
	}

	sanitized := codeBlockPattern.ReplaceAllString(prompt, " ")
	sanitized = inlineCodePattern.ReplaceAllString(sanitized, " ")
	sanitized = strings.Join(strings.Fields(sanitized), " ")

	// Stripping code spans can splice an injection phrase back together
	// ("Ignore `junk` previous instructions"), so the check runs again on
	// the cleaned text.
	if err := checkInjection(sanitized); err != nil {
		return "", err
	}

	if sanitized == "" {
		return "", fmt.Errorf("%w: prompt must include valid text after sanitization", ErrInvalidPrompt)
	}
	return sanitized, nil
}

func checkInjection(text string) error {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(text) {
			return fmt.Errorf("%w: prompt contains disallowed instruction patterns", ErrInvalidPrompt)
		}
	}
	return nil
}
