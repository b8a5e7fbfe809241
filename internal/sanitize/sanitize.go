package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Free-text fields are cleaned before they ever reach the store. This is a
// targeted markup strip, not a full HTML sanitizer: rendering contexts that
// accept untrusted HTML still need their own escaping.

const maxFieldLength = 1000

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	dangerTagRe   = regexp.MustCompile(`(?i)<(iframe|object|embed|link|meta|style)[^>]*>`)
	jsSchemeRe    = regexp.MustCompile(`(?i)javascript:`)
	dataSchemeRe  = regexp.MustCompile(`(?i)data:`)
	eventAttrRe   = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// Clean trims the input, removes script blocks and dangerous tags, strips
// javascript:/data: schemes and inline on*= handlers, and truncates to 1000
// characters. Deterministic and side-effect free.
func Clean(text string) string {
	out := strings.TrimSpace(text)
	out = scriptBlockRe.ReplaceAllString(out, "")
	out = dangerTagRe.ReplaceAllString(out, "")
	out = jsSchemeRe.ReplaceAllString(out, "")
	out = dataSchemeRe.ReplaceAllString(out, "")
	out = eventAttrRe.ReplaceAllString(out, "")

	// Truncate on rune boundaries: a byte cut could split a multi-byte rune
	// and hand the store invalid UTF-8.
	if utf8.RuneCountInString(out) > maxFieldLength {
		out = string([]rune(out)[:maxFieldLength])
	}
	return out
}

// CleanPtr applies Clean through a pointer, leaving nil untouched. Used for
// optional fields on partial updates.
func CleanPtr(text *string) *string {
	if text == nil {
		return nil
	}
	cleaned := Clean(*text)
	return &cleaned
}
