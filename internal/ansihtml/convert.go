package ansihtml

import (
	"html"
	"regexp"
	"strings"
)

const (
	esc = 0x1b
	bel = 0x07
)

// wrapOpen and wrapClose enclose every converted fragment.
const (
	wrapOpen  = `<pre><span style="font-family:monospace;">`
	wrapClose = `</span></pre>`
)

// urlPattern matches URL-shaped substrings for linkification.
var urlPattern = regexp.MustCompile(`(?:(?:https?|ftps?)://|mailto:)[^\s<>"'` + "`" + `]+`)

// textEscaper escapes element content. Quotes stay literal outside attributes.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// urlTrailing is punctuation that usually ends a sentence rather than a URL.
const urlTrailing = ".,;:!?)]}'\""

// Converter renders ANSI-coloured text as HTML. It is stateless between calls
// and safe for concurrent use.
type Converter struct {
	palette *Palette
	linkify bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithPalette replaces the 16 base colours.
func WithPalette(p Palette) Option {
	return func(c *Converter) {
		c.palette = &p
	}
}

// WithLinkify enables or disables hyperlink detection (enabled by default).
func WithLinkify(enabled bool) Option {
	return func(c *Converter) {
		c.linkify = enabled
	}
}

// New creates a Converter using DefaultPalette with linkification enabled.
func New(opts ...Option) *Converter {
	p := DefaultPalette
	c := &Converter{palette: &p, linkify: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert renders text as a wrapped, fixed-width HTML fragment.
// Trailing line breaks are dropped before rendering.
func (c *Converter) Convert(text string) string {
	return wrapOpen + c.Fragment(text) + wrapClose
}

// Fragment renders text as inline HTML without the fixed-width wrapper.
func (c *Converter) Fragment(text string) string {
	text = strings.TrimRight(text, "\r\n")

	var out strings.Builder
	out.Grow(len(text) + len(text)/4)

	var (
		cur style
		run strings.Builder
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		c.writeRun(&out, run.String(), cur.css())
		run.Reset()
	}

	for i := 0; i < len(text); {
		b := text[i]
		if b != esc {
			run.WriteByte(b)
			i++
			continue
		}

		end, params, isSGR, ok := scanEscape(text, i)
		if !ok {
			// Malformed: drop the escape byte, keep the rest as text.
			i++
			continue
		}
		if isSGR {
			next := cur
			if next.applySGR(params, c.palette) && next != cur {
				flush()
				cur = next
			}
		}
		i = end
	}
	flush()

	return out.String()
}

// writeRun escapes a run of text, optionally linkifies it, and wraps it in a
// styled span when css is non-empty.
func (c *Converter) writeRun(out *strings.Builder, text, css string) {
	if css != "" {
		out.WriteString(`<span style="`)
		out.WriteString(css)
		out.WriteString(`">`)
	}

	if !c.linkify {
		out.WriteString(textEscaper.Replace(text))
	} else {
		writeLinkified(out, text)
	}

	if css != "" {
		out.WriteString("</span>")
	}
}

// writeLinkified escapes text and turns URL-shaped substrings into anchors.
func writeLinkified(out *strings.Builder, text string) {
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		url := strings.TrimRight(text[start:end], urlTrailing)
		if strings.HasSuffix(url, "://") || strings.HasSuffix(url, ":") {
			continue
		}
		end = start + len(url)

		out.WriteString(textEscaper.Replace(text[last:start]))
		out.WriteString(`<a href="`)
		out.WriteString(html.EscapeString(url))
		out.WriteString(`">`)
		out.WriteString(textEscaper.Replace(url))
		out.WriteString("</a>")
		last = end
	}
	out.WriteString(textEscaper.Replace(text[last:]))
}

// scanEscape inspects the escape sequence starting at text[i] (an ESC byte).
// It returns the index just past the sequence, the parameter bytes, whether it
// is an SGR sequence, and ok=false when the sequence is malformed or truncated.
func scanEscape(text string, i int) (end int, params string, isSGR, ok bool) {
	if i+1 >= len(text) {
		return 0, "", false, false
	}

	switch text[i+1] {
	case '[':
		return scanCSI(text, i+2)
	case ']':
		return scanOSC(text, i+2)
	default:
		return 0, "", false, false
	}
}

// scanCSI parses a Control Sequence Introducer body starting at j:
// parameter bytes 0x30-0x3F, intermediate bytes 0x20-0x2F, one final byte 0x40-0x7E.
func scanCSI(text string, j int) (int, string, bool, bool) {
	start := j
	for j < len(text) && text[j] >= 0x30 && text[j] <= 0x3f {
		j++
	}
	paramEnd := j
	for j < len(text) && text[j] >= 0x20 && text[j] <= 0x2f {
		j++
	}
	if j >= len(text) || text[j] < 0x40 || text[j] > 0x7e {
		return 0, "", false, false
	}

	params := text[start:paramEnd]
	// Private-mode sequences ("\x1b[?25l") are never SGR.
	isSGR := text[j] == 'm' && paramEnd == j && !strings.ContainsAny(params, "<=>?")
	return j + 1, params, isSGR, true
}

// scanOSC parses an Operating System Command terminated by BEL or ESC '\'.
func scanOSC(text string, j int) (int, string, bool, bool) {
	for ; j < len(text); j++ {
		switch text[j] {
		case bel:
			return j + 1, "", false, true
		case esc:
			if j+1 < len(text) && text[j+1] == '\\' {
				return j + 2, "", false, true
			}
			return 0, "", false, false
		}
	}
	return 0, "", false, false
}
