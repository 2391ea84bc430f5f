package content

import (
	"html"
	"strings"
)

// Block is one rich-text node. The content API serializes documents as flat
// block lists; spans mark inline formatting by rune offsets.
type Block struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Spans []Span `json:"spans"`
}

// Span marks an inline formatting range within a block's text.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
	URL   string `json:"url,omitempty"`
}

// AsText flattens blocks into plain text, blocks separated by newlines.
func AsText(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// AsHTML renders blocks as HTML. Text is escaped before spans are applied.
func AsHTML(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		tag := blockTag(b.Type)
		sb.WriteString("<" + tag + ">")
		sb.WriteString(renderSpans(b))
		sb.WriteString("</" + tag + ">")
	}
	return sb.String()
}

// FirstBlocks returns at most n leading blocks, used for previews.
func FirstBlocks(blocks []Block, n int) []Block {
	if len(blocks) <= n {
		return blocks
	}
	return blocks[:n]
}

// Excerpt returns the first paragraph's text truncated to maxLen runes.
func Excerpt(blocks []Block, maxLen int) string {
	for _, b := range blocks {
		if b.Type != "paragraph" || b.Text == "" {
			continue
		}
		runes := []rune(b.Text)
		if len(runes) <= maxLen {
			return b.Text
		}
		return strings.TrimSpace(string(runes[:maxLen])) + "..."
	}
	return ""
}

func blockTag(blockType string) string {
	switch blockType {
	case "heading1":
		return "h1"
	case "heading2":
		return "h2"
	case "heading3":
		return "h3"
	case "list-item":
		return "li"
	case "preformatted":
		return "pre"
	default:
		return "p"
	}
}

// renderSpans escapes the block text and wraps span ranges in inline tags.
// Span offsets are rune-based; overlapping spans are applied innermost-first
// in reverse order so earlier offsets stay valid.
func renderSpans(b Block) string {
	if len(b.Spans) == 0 {
		return html.EscapeString(b.Text)
	}

	runes := []rune(b.Text)

	// Render by walking the text once, emitting open/close tags at span
	// boundaries. Spans with out-of-range offsets are skipped.
	var sb strings.Builder
	opens := make(map[int][]Span)
	closes := make(map[int][]Span)
	for _, s := range b.Spans {
		if s.Start < 0 || s.End > len(runes) || s.Start >= s.End {
			continue
		}
		opens[s.Start] = append(opens[s.Start], s)
		closes[s.End] = append(closes[s.End], s)
	}

	for i := 0; i <= len(runes); i++ {
		for _, s := range closes[i] {
			sb.WriteString(closeTag(s))
		}
		for _, s := range opens[i] {
			sb.WriteString(openTag(s))
		}
		if i < len(runes) {
			sb.WriteString(html.EscapeString(string(runes[i])))
		}
	}
	return sb.String()
}

func openTag(s Span) string {
	switch s.Type {
	case "strong":
		return "<strong>"
	case "em":
		return "<em>"
	case "hyperlink":
		return `<a href="` + html.EscapeString(s.URL) + `">`
	default:
		return ""
	}
}

func closeTag(s Span) string {
	switch s.Type {
	case "strong":
		return "</strong>"
	case "em":
		return "</em>"
	case "hyperlink":
		return "</a>"
	default:
		return ""
	}
}
