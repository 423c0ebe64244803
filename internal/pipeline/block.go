package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Worksheet delimiters. A block opens with CellMarker id modes CellMarker and
// carries its output envelope between OutputMarker delimiters.
const (
	CellMarker   = "\uFE20"
	OutputMarker = "\uFE21"
)

// Cell mode flags placed between the block id and the closing cell marker.
const (
	ModeAuto      = "a" // evaluate when the worksheet is opened
	ModeHideInput = "i"
)

// markdownModeLine switches a worksheet cell to markdown.
const markdownModeLine = "%md\n"

// Kind is the rendering kind of a block's output.
type Kind string

// Block output kinds.
const (
	KindHTML     Kind = "html"
	KindMarkdown Kind = "md"
	KindError    Kind = "err"
	KindASCII    Kind = "ascii"
	KindStdout   Kind = "stdout"
)

// envelopeKey returns the key under which the output is stored. Error and
// ASCII output are already HTML by the time a block is built.
func (k Kind) envelopeKey() string {
	switch k {
	case KindError, KindASCII, KindHTML:
		return string(KindHTML)
	case KindMarkdown:
		return string(KindMarkdown)
	case KindStdout:
		return string(KindStdout)
	default:
		return string(KindStdout)
	}
}

// Block is one worksheet cell ready to be serialized.
type Block struct {
	Input  string
	Output string
	Kind   Kind
	Modes  string
}

// IDGenerator returns a fresh identifier for every call.
type IDGenerator func() string

// markerEscaper keeps delimiter runes out of JSON string payloads.
var markerEscaper = strings.NewReplacer(CellMarker, `\ufe20`, OutputMarker, `\ufe21`)

// markerStripper removes delimiter runes from input text.
var markerStripper = strings.NewReplacer(CellMarker, "", OutputMarker, "")

// BlockBuilder serializes blocks into the worksheet format.
type BlockBuilder struct {
	newID IDGenerator
}

// NewBlockBuilder creates a BlockBuilder. A nil generator uses random UUIDs.
func NewBlockBuilder(gen IDGenerator) *BlockBuilder {
	if gen == nil {
		gen = uuid.NewString
	}
	return &BlockBuilder{newID: gen}
}

// Build returns the serialized block, or "" when it has neither input nor output.
// Markdown blocks declare their input as output so they render as themselves.
func (b *BlockBuilder) Build(blk Block) string {
	input := markerStripper.Replace(blk.Input)
	output := blk.Output
	if blk.Kind == KindMarkdown {
		output = input
	}
	if input == "" && output == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(input) + len(output) + 128)

	sb.WriteString(CellMarker)
	sb.WriteString(b.newID())
	sb.WriteString(blk.Modes)
	sb.WriteString(CellMarker)
	sb.WriteByte('\n')
	if blk.Kind == KindMarkdown {
		sb.WriteString(markdownModeLine)
	}
	sb.WriteString(input)

	sb.WriteByte('\n')
	sb.WriteString(OutputMarker)
	sb.WriteString(b.newID())
	sb.WriteString(OutputMarker)
	sb.WriteString(envelope(blk.Kind.envelopeKey(), output))
	sb.WriteString(OutputMarker)
	sb.WriteByte('\n')

	return sb.String()
}

// envelope encodes {"<key>": <output>, "done": true}.
func envelope(key, output string) string {
	return `{"` + key + `": ` + jsonString(output) + `, "done": true}`
}

// jsonString encodes s as a JSON string without HTML escaping, with the
// delimiter runes escaped.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return markerEscaper.Replace(strings.TrimSuffix(buf.String(), "\n"))
}
