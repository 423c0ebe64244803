package pipeline

import (
	"strings"

	"github.com/alnah/go-ipynb2sagews/internal/nbformat"
)

// imageFragment returns the best image payload of an output as HTML: inline
// SVG first, then PNG, then JPEG. It returns "" when there is none.
func imageFragment(out *nbformat.Output) string {
	if svg, ok := out.DataText(nbformat.MIMESVG); ok && strings.TrimSpace(svg) != "" {
		return strings.TrimSpace(svg)
	}
	for _, mime := range []string{nbformat.MIMEPNG, nbformat.MIMEJPEG} {
		data, ok := out.DataText(mime)
		if !ok {
			continue
		}
		data = strings.Join(strings.Fields(data), "")
		if data == "" || !isBase64(data) {
			continue
		}
		return `<img src="data:` + mime + `;base64,` + data + `"/>`
	}
	return ""
}

// isBase64 reports whether s uses only the standard base64 alphabet, so it
// can sit inside a quoted attribute unescaped.
func isBase64(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+', c == '/', c == '=':
		default:
			return false
		}
	}
	return true
}
