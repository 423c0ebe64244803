// Package nbformat decodes Jupyter notebook documents.
//
// Notebooks are read into the version 4 data model regardless of the version
// on disk. Version 3 documents are upgraded on the fly; older and newer major
// versions are rejected with ErrUnsupportedVersion.
package nbformat

import (
	"encoding/json"
	"strings"
)

// Current is the notebook format major version this package produces.
const (
	CurrentMajor = 4
	CurrentMinor = 5
)

// CellType discriminates notebook cells.
type CellType string

// Recognised cell types.
const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
	CellRaw      CellType = "raw"
)

// Known reports whether t is one of the recognised cell types.
func (t CellType) Known() bool {
	switch t {
	case CellCode, CellMarkdown, CellRaw:
		return true
	default:
		return false
	}
}

// OutputType discriminates code cell outputs.
type OutputType string

// Recognised output types.
const (
	OutputStream        OutputType = "stream"
	OutputDisplayData   OutputType = "display_data"
	OutputExecuteResult OutputType = "execute_result"
	OutputError         OutputType = "error"
)

// Known reports whether t is one of the recognised output types.
func (t OutputType) Known() bool {
	switch t {
	case OutputStream, OutputDisplayData, OutputExecuteResult, OutputError:
		return true
	default:
		return false
	}
}

// Common MIME keys found in display_data and execute_result payloads.
const (
	MIMEHTML     = "text/html"
	MIMELatex    = "text/latex"
	MIMEMarkdown = "text/markdown"
	MIMEPlain    = "text/plain"
	MIMESVG      = "image/svg+xml"
	MIMEPNG      = "image/png"
	MIMEJPEG     = "image/jpeg"
)

// Notebook is a decoded version 4 notebook.
type Notebook struct {
	Metadata      Metadata `json:"metadata"`
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
	Cells         []Cell   `json:"cells"`
}

// Metadata holds the document-level metadata the converter cares about.
type Metadata struct {
	KernelSpec   *KernelSpec   `json:"kernelspec,omitempty"`
	LanguageInfo *LanguageInfo `json:"language_info,omitempty"`
}

// KernelSpec identifies the kernel a notebook was written for.
type KernelSpec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Language    string `json:"language,omitempty"`
}

// LanguageInfo describes the kernel language.
type LanguageInfo struct {
	Name string `json:"name"`
}

// KernelName returns the kernelspec name, or "" when the notebook has none.
func (n *Notebook) KernelName() string {
	if n.Metadata.KernelSpec == nil {
		return ""
	}
	return strings.TrimSpace(n.Metadata.KernelSpec.Name)
}

// Cell is one notebook cell. Raw keeps the undecoded JSON for diagnostics.
type Cell struct {
	CellType       CellType        `json:"cell_type"`
	Source         MultilineString `json:"source"`
	Outputs        []Output        `json:"outputs,omitempty"`
	ExecutionCount *int            `json:"execution_count,omitempty"`
	Raw            json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes a cell and retains its raw bytes. Cells of an
// unrecognised type keep only their type and raw bytes, so their fields
// never fail the document.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var tag struct {
		CellType CellType `json:"cell_type"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return err
	}
	raw := append(json.RawMessage(nil), b...)
	if !tag.CellType.Known() {
		*c = Cell{CellType: tag.CellType, Raw: raw}
		return nil
	}

	type plain Cell
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Cell(p)
	c.Raw = raw
	return nil
}

// Output is one code cell output record. Raw keeps the undecoded JSON.
type Output struct {
	OutputType     OutputType                 `json:"output_type"`
	Name           string                     `json:"name,omitempty"`
	Text           MultilineString            `json:"text,omitempty"`
	Data           map[string]json.RawMessage `json:"data,omitempty"`
	ExecutionCount *int                       `json:"execution_count,omitempty"`
	EName          string                     `json:"ename,omitempty"`
	EValue         string                     `json:"evalue,omitempty"`
	Traceback      []string                   `json:"traceback,omitempty"`
	Raw            json.RawMessage            `json:"-"`
}

// UnmarshalJSON decodes an output record and retains its raw bytes.
// Unrecognised records keep only their type and raw bytes.
func (o *Output) UnmarshalJSON(b []byte) error {
	var tag struct {
		OutputType OutputType `json:"output_type"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return err
	}
	raw := append(json.RawMessage(nil), b...)
	if !tag.OutputType.Known() {
		*o = Output{OutputType: tag.OutputType, Raw: raw}
		return nil
	}

	type plain Output
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Output(p)
	o.Raw = raw
	return nil
}

// DataText returns the payload stored under a MIME key as text. Payloads may
// be a string or a list of lines; anything else (for example application/json
// objects) is reported as absent.
func (o *Output) DataText(mime string) (string, bool) {
	raw, ok := o.Data[mime]
	if !ok {
		return "", false
	}
	var s MultilineString
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return string(s), true
}

// MultilineString is a notebook text field stored either as one string or as
// a list of lines that are concatenated verbatim.
type MultilineString string

// UnmarshalJSON accepts a string, a list of strings, or null.
func (m *MultilineString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = MultilineString(s)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return err
	}
	*m = MultilineString(strings.Join(lines, ""))
	return nil
}

// String returns the joined text.
func (m MultilineString) String() string {
	return string(m)
}
