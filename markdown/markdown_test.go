package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwojciec/minerva"
	"github.com/fwojciec/minerva/markdown"
)

func TestRender(t *testing.T) {
	t.Parallel()

	theme := minerva.DefaultTheme()

	t.Run("empty input returns empty string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", markdown.Render("", 80, theme))
	})

	t.Run("plain paragraph", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("hello world", 80, theme)
		assert.Contains(t, result, "hello world")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		result := markdown.Render(long, 30, theme)
		assert.Contains(t, result, "word1")
		assert.Contains(t, result, "word12")
		assert.Greater(t, len(strings.Split(result, "\n")), 1)
	})

	t.Run("heading renders with styling", func(t *testing.T) {
		t.Parallel()
		heading := markdown.Render("# Title", 80, theme)
		paragraph := markdown.Render("Title", 80, theme)
		assert.Contains(t, heading, "Title")
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("bold and italic text", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, markdown.Render("**bold**", 80, theme), "bold")
		assert.Contains(t, markdown.Render("*italic*", 80, theme), "italic")
		assert.Contains(t, markdown.Render("***both***", 80, theme), "both")
	})

	t.Run("inline code", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, markdown.Render("`go run .`", 80, theme), "go run .")
	})

	t.Run("fenced code block preserves content without reflow", func(t *testing.T) {
		t.Parallel()
		src := "```go\nfmt.Println(\"hello world\")\n```"
		result := markdown.Render(src, 20, theme)
		assert.Contains(t, result, `fmt.Println("hello world")`)
	})

	t.Run("fenced code block shows language label", func(t *testing.T) {
		t.Parallel()
		src := "```python\nprint('hi')\n```"
		result := markdown.Render(src, 80, theme)
		assert.Contains(t, result, "python")
		assert.Contains(t, result, "print('hi')")
	})

	t.Run("bullet list", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("- one\n- two\n- three", 80, theme)
		assert.Contains(t, result, "- one")
		assert.Contains(t, result, "- two")
		assert.Contains(t, result, "- three")
	})

	t.Run("ordered list numbers items", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("1. first\n2. second", 80, theme)
		assert.Contains(t, result, "1. first")
		assert.Contains(t, result, "2. second")
	})

	t.Run("nested list is indented", func(t *testing.T) {
		t.Parallel()
		src := "- outer\n  - inner one\n  - inner two"
		result := markdown.Render(src, 80, theme)
		assert.Contains(t, result, "- outer")
		assert.Contains(t, result, "  - inner one")
		assert.Contains(t, result, "  - inner two")
	})

	t.Run("list item continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- this is a very long list item that should wrap and have continuation lines properly indented"
		result := markdown.Render(src, 30, theme)
		lines := strings.Split(result, "\n")
		assert.True(t, strings.HasPrefix(lines[0], "- "))
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				assert.True(t, strings.HasPrefix(line, "  "), "continuation line should be indented: %q", line)
			}
		}
	})

	t.Run("link shows text and URL", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("[click](https://example.com)", 80, theme)
		assert.Contains(t, result, "click")
		assert.Contains(t, result, "example.com")
	})

	t.Run("blockquote carries a gutter", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("> quoted text", 80, theme)
		assert.Contains(t, result, "│")
		assert.Contains(t, result, "quoted text")
	})

	t.Run("thematic break draws a rule", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("---", 80, theme)
		assert.Contains(t, result, "─")
	})

	t.Run("multiple paragraphs separated by blank lines", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("first paragraph\n\nsecond paragraph", 80, theme)
		assert.Contains(t, result, "first paragraph")
		assert.Contains(t, result, "second paragraph")
		assert.Contains(t, result, "\n\n")
	})

	t.Run("zero width falls back to a sane default", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("hello", 0, theme)
		assert.Contains(t, result, "hello")
	})
}
