package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/alnah/go-ipynb2sagews/internal/ansihtml"
	"github.com/alnah/go-ipynb2sagews/internal/nbformat"
)

// Separators used when joining fragments of one category.
const (
	htmlSeparator  = "<br/>"
	plainSeparator = "\n"
)

// Resolved collects the renderable content of one cell by category.
type Resolved struct {
	Input    string
	HTML     string
	Stdout   string
	ASCII    string
	Error    string
	Markdown string
}

// Resolve picks the single representation a cell is written with:
// html, then markdown, then error, then ascii, then plain output with the
// input. It reports false when the cell has nothing to write.
func (r Resolved) Resolve() (Block, bool) {
	input := strings.TrimSpace(r.Input)
	html := strings.TrimSpace(r.HTML)
	md := strings.TrimSpace(r.Markdown)
	errHTML := strings.TrimSpace(r.Error)
	ascii := strings.TrimSpace(r.ASCII)
	stdout := strings.TrimSpace(r.Stdout)

	switch {
	case html != "":
		return Block{Input: input, Output: html, Kind: KindHTML}, true
	case md != "":
		return Block{Input: md, Output: md, Kind: KindMarkdown, Modes: ModeHideInput}, true
	case errHTML != "":
		return Block{Input: input, Output: errHTML, Kind: KindError}, true
	case ascii != "":
		return Block{Input: input, Output: ascii, Kind: KindASCII}, true
	case input != "" || stdout != "":
		return Block{Input: input, Output: stdout, Kind: KindStdout}, true
	default:
		return Block{}, false
	}
}

// SkippedOutput describes an output record the classifier did not recognise.
type SkippedOutput struct {
	Index int
	Type  nbformat.OutputType
	Raw   json.RawMessage
}

// Classifier groups output records into Resolved categories.
type Classifier struct {
	ansi     *ansihtml.Converter
	markdown MarkdownRenderer
	images   bool
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithMarkdownRenderer renders text/markdown payloads to HTML. Without one,
// markdown payloads are ignored in favour of text/plain.
func WithMarkdownRenderer(r MarkdownRenderer) ClassifierOption {
	return func(cl *Classifier) {
		cl.markdown = r
	}
}

// WithImages embeds image/svg+xml, image/png and image/jpeg payloads as HTML.
func WithImages(enabled bool) ClassifierOption {
	return func(cl *Classifier) {
		cl.images = enabled
	}
}

// NewClassifier creates a Classifier. By default only text/html, text/latex
// and text/plain payloads are used.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	cl := &Classifier{ansi: ansihtml.New()}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Classify walks outputs in order and accumulates them by category.
// Unrecognised output types are returned as skipped and otherwise ignored.
func (c *Classifier) Classify(outputs []nbformat.Output) (Resolved, []SkippedOutput) {
	var (
		html, stdout, ascii, errs []string
		skipped                   []SkippedOutput
	)

	for i := range outputs {
		out := &outputs[i]
		switch out.OutputType {
		case nbformat.OutputStream:
			ascii = append(ascii, c.ansi.Convert(out.Text.String()))

		case nbformat.OutputDisplayData, nbformat.OutputExecuteResult:
			h, plain := c.classifyData(out)
			html = append(html, h...)
			if plain != "" {
				stdout = append(stdout, plain)
			}

		case nbformat.OutputError:
			for _, line := range out.Traceback {
				errs = append(errs, c.ansi.Convert(line))
			}

		default:
			skipped = append(skipped, SkippedOutput{Index: i, Type: out.OutputType, Raw: out.Raw})
		}
	}

	return Resolved{
		HTML:   strings.TrimSpace(strings.Join(html, htmlSeparator)),
		Stdout: strings.TrimSpace(strings.Join(stdout, plainSeparator)),
		ASCII:  strings.TrimSpace(strings.Join(ascii, htmlSeparator)),
		Error:  strings.TrimSpace(strings.Join(errs, htmlSeparator)),
	}, skipped
}

// classifyData returns the HTML fragments and plain text of a rich output.
// text/html and text/latex are both kept; markdown and images are only used
// when no text/html is present.
func (c *Classifier) classifyData(out *nbformat.Output) ([]string, string) {
	var frags []string

	htmlText, hasHTML := out.DataText(nbformat.MIMEHTML)
	if hasHTML {
		frags = append(frags, htmlText)
	}
	if latex, ok := out.DataText(nbformat.MIMELatex); ok {
		frags = append(frags, latex)
	}

	plain, _ := out.DataText(nbformat.MIMEPlain)

	if !hasHTML && c.markdown != nil {
		if md, ok := out.DataText(nbformat.MIMEMarkdown); ok {
			rendered, err := c.markdown.RenderMarkdown(md)
			if err == nil {
				frags = append(frags, rendered)
			} else if plain == "" {
				plain = md
			}
		}
	}

	if !hasHTML && c.images {
		if img := imageFragment(out); img != "" {
			frags = append(frags, img)
		}
	}

	return frags, plain
}
