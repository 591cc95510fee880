package domain

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the maximum trimmed task text length in runes.
const MaxTextLength = 200

// maxStoredTextLength bounds the text length accepted when re-validating
// persisted records. Sanitized text stores HTML entities (up to 6 bytes per
// escaped rune), so stored text may legitimately exceed MaxTextLength.
const maxStoredTextLength = MaxTextLength * 6

// unsafePatterns match clearly dangerous markup that is rejected outright
// rather than escaped: script/iframe tags, javascript: URIs and inline
// event-handler attributes.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)<\s*/\s*script`),
	regexp.MustCompile(`(?i)<\s*iframe`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
}

// Validate checks a candidate task text against the acceptance rules, in
// order, first failure wins. It returns nil when the text is acceptable.
// Deterministic, no side effects.
func Validate(text string) *ValidationError {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ValidationError{Kind: KindEmpty, Message: "task text cannot be empty"}
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLength {
		return &ValidationError{Kind: KindTooLong, Message: "task text exceeds 200 characters"}
	}
	if pat := matchUnsafe(trimmed); pat != "" {
		return &ValidationError{Kind: KindUnsafe, Message: "task text contains unsafe content: " + pat}
	}
	return nil
}

// ValidateStored checks text coming back from the durable medium. The text
// was sanitized before it was written, so the length bound is relaxed to the
// worst-case entity expansion; the unsafe patterns still apply.
func ValidateStored(text string) *ValidationError {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ValidationError{Kind: KindEmpty, Message: "stored task text is empty"}
	}
	if utf8.RuneCountInString(trimmed) > maxStoredTextLength {
		return &ValidationError{Kind: KindTooLong, Message: "stored task text exceeds the length bound"}
	}
	if pat := matchUnsafe(trimmed); pat != "" {
		return &ValidationError{Kind: KindUnsafe, Message: "stored task text contains unsafe content: " + pat}
	}
	return nil
}

// Sanitize trims the text and escapes the five HTML-significant characters
// (& < > " ') to entity form. This is textual escaping, not removal; it is
// applied only to text that Validate has already accepted. Empty in, empty out.
func Sanitize(text string) string {
	return html.EscapeString(strings.TrimSpace(text))
}

func matchUnsafe(text string) string {
	for _, re := range unsafePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}
