package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fwojciec/minerva"
)

// renderer converts a goldmark AST into styled terminal text. Blocks are
// rendered independently and joined with blank lines, which keeps spacing
// uniform regardless of how deeply a block was nested in the source.
type renderer struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

func newRenderer(theme minerva.Theme) *renderer {
	return &renderer{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	blocks := r.renderChildren(doc, source, width)
	return strings.TrimRight(strings.Join(blocks, "\n\n"), "\n")
}

// renderChildren renders each child block to a self-contained string with
// no trailing newline.
func (r *renderer) renderChildren(node ast.Node, source []byte, width int) []string {
	var blocks []string
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.renderBlock(c, source, width); s != "" {
			blocks = append(blocks, s)
		}
	}
	return blocks
}

func (r *renderer) renderBlock(node ast.Node, source []byte, width int) string {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		inline := r.inline(n, source)
		return lipgloss.NewStyle().Width(width).Render(inline)

	case *ast.Heading:
		styled := r.heading.Render(r.inline(n, source))
		return lipgloss.NewStyle().Width(width).Render(styled)

	case *ast.FencedCodeBlock:
		return r.codeBlock(string(n.Language(source)), n.Lines(), source)

	case *ast.CodeBlock:
		return r.codeBlock("", n.Lines(), source)

	case *ast.List:
		return r.list(n, source, width, 0)

	case *ast.Blockquote:
		inner := strings.Join(r.renderChildren(n, source, width-2), "\n\n")
		gutter := r.muted.Render("│")
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = gutter + " " + line
		}
		return strings.Join(lines, "\n")

	case *ast.ThematicBreak:
		return r.muted.Render(strings.Repeat("─", min(width, 30)))

	default:
		// Unrecognized blocks: render their children flat.
		return strings.Join(r.renderChildren(node, source, width), "\n\n")
	}
}

func (r *renderer) codeBlock(lang string, lines *text.Segments, source []byte) string {
	var sb strings.Builder
	if lang != "" {
		sb.WriteString(r.muted.Render(lang))
		sb.WriteByte('\n')
	}
	gutter := r.muted.Render("│") + " "
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(source)), "\n")
		sb.WriteString(gutter)
		sb.WriteString(line)
		if i < lines.Len()-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (r *renderer) list(node *ast.List, source []byte, width, depth int) string {
	indent := strings.Repeat("  ", depth)
	num := node.Start
	var items []string
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		items = append(items, r.listItem(item, source, width, depth, indent, marker))
	}
	return strings.Join(items, "\n")
}

func (r *renderer) listItem(item *ast.ListItem, source []byte, width, depth int, indent, marker string) string {
	var parts []string
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if nested, ok := c.(*ast.List); ok {
			parts = append(parts, r.list(nested, source, width, depth+1))
			continue
		}
		content := r.renderBlock(c, source, itemWidth(width, indent, marker))
		parts = append(parts, prefixLines(content, indent+marker, indent+strings.Repeat(" ", len(marker))))
		marker = strings.Repeat(" ", len(marker))
	}
	return strings.Join(parts, "\n")
}

func itemWidth(width int, indent, marker string) int {
	w := width - len(indent) - len(marker)
	if w < 10 {
		w = 10
	}
	return w
}

// prefixLines puts the marker on the first line and continuation
// indentation on the rest.
func prefixLines(content, first, rest string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = first + line
		} else {
			lines[i] = rest + line
		}
	}
	return strings.Join(lines, "\n")
}

// inline recursively collects styled inline text from a node's children.
func (r *renderer) inline(node ast.Node, source []byte) string {
	var sb strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &sb)
	}
	return sb.String()
}

func (r *renderer) renderInline(node ast.Node, source []byte, sb *strings.Builder) {
	switch n := node.(type) {
	case *ast.Text:
		sb.Write(n.Segment.Value(source))
		if n.SoftLineBreak() {
			sb.WriteByte(' ')
		}
		if n.HardLineBreak() {
			sb.WriteByte('\n')
		}

	case *ast.String:
		sb.Write(n.Value)

	case *ast.Emphasis:
		inner := r.inline(n, source)
		if n.Level == 1 {
			sb.WriteString(r.italic.Render(inner))
		} else {
			sb.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		sb.WriteString(r.bold.Render(r.inline(n, source)))

	case *ast.Link:
		sb.WriteString(r.underline.Render(r.inline(n, source)))
		sb.WriteString(" ")
		sb.WriteString(r.muted.Render("(" + string(n.Destination) + ")"))

	case *ast.AutoLink:
		sb.WriteString(r.underline.Render(string(n.URL(source))))

	case *ast.Image:
		sb.WriteString(r.underline.Render(r.inline(n, source)))
		sb.WriteString(" ")
		sb.WriteString(r.muted.Render("(" + string(n.Destination) + ")"))

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.renderInline(c, source, sb)
		}
	}
}
