package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	t.Run("RemovesScriptBlocks", func(t *testing.T) {
		assert.Equal(t, "Hello", Clean("<script>alert(1)</script>Hello"))
		assert.Equal(t, "Hello", Clean("<SCRIPT type=\"text/javascript\">alert(1)</SCRIPT>Hello"))
	})

	t.Run("NonGreedyAcrossMultipleBlocks", func(t *testing.T) {
		assert.Equal(t, "ab", Clean("<script>x</script>a<script>y</script>b"))
	})

	t.Run("Trims", func(t *testing.T) {
		assert.Equal(t, "Hello", Clean("  Hello  "))
	})

	t.Run("StripsDangerousTags", func(t *testing.T) {
		assert.Equal(t, "before after", Clean("before <iframe src=\"http://evil\">after"))
		assert.Equal(t, "x", Clean("<style bgcolor=red>x"))
		assert.Equal(t, "x", Clean("<META http-equiv=refresh>x"))
	})

	t.Run("StripsURLSchemes", func(t *testing.T) {
		assert.Equal(t, "alert(1)", Clean("javascript:alert(1)"))
		assert.Equal(t, "text/html;x", Clean("DATA:text/html;x"))
	})

	t.Run("StripsEventHandlers", func(t *testing.T) {
		assert.Equal(t, `<a "x">link</a>`, Clean(`<a onclick="x">link</a>`))
		assert.Equal(t, `<img "y">`, Clean(`<img ONERROR="y">`))
	})

	t.Run("TruncatesTo1000", func(t *testing.T) {
		long := strings.Repeat("a", 1500)
		assert.Len(t, Clean(long), 1000)
	})

	t.Run("TruncatesOnRuneBoundaries", func(t *testing.T) {
		got := Clean(strings.Repeat("a", 999) + "été")
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 1000, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "é"))
	})

	t.Run("CleanTextPassesThrough", func(t *testing.T) {
		assert.Equal(t, "Farmers Market, Pier Park", Clean("Farmers Market, Pier Park"))
	})
}

func TestCleanPtr(t *testing.T) {
	assert.Nil(t, CleanPtr(nil))

	in := "  Hello  "
	out := CleanPtr(&in)
	assert.Equal(t, "Hello", *out)
}
