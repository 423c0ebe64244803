package nbformat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// v3 short payload keys and their version 4 MIME types.
var v3MIMEKeys = map[string]string{
	"text":       MIMEPlain,
	"html":       MIMEHTML,
	"latex":      MIMELatex,
	"markdown":   MIMEMarkdown,
	"svg":        MIMESVG,
	"png":        MIMEPNG,
	"jpeg":       MIMEJPEG,
	"javascript": "application/javascript",
	"json":       "application/json",
	"pdf":        "application/pdf",
}

// v3 output types renamed in version 4.
var v3OutputTypes = map[string]OutputType{
	"pyout": OutputExecuteResult,
	"pyerr": OutputError,
}

type v3Notebook struct {
	Metadata   Metadata      `json:"metadata"`
	Worksheets []v3Worksheet `json:"worksheets"`
}

type v3Worksheet struct {
	Cells []v3Cell `json:"cells"`
}

type v3Cell struct {
	CellType     string            `json:"cell_type"`
	Input        MultilineString   `json:"input"`
	Source       MultilineString   `json:"source"`
	Level        int               `json:"level"`
	Outputs      []json.RawMessage `json:"outputs"`
	PromptNumber *int              `json:"prompt_number"`
	raw          json.RawMessage
}

// v3CellTypes lists the cell types whose fields are decoded.
var v3CellTypes = map[string]bool{"code": true, "markdown": true, "raw": true, "heading": true}

func (c *v3Cell) UnmarshalJSON(b []byte) error {
	var tag struct {
		CellType string `json:"cell_type"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return err
	}
	raw := append(json.RawMessage(nil), b...)
	if !v3CellTypes[tag.CellType] {
		*c = v3Cell{CellType: tag.CellType, raw: raw}
		return nil
	}

	type plain v3Cell
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = v3Cell(p)
	c.raw = raw
	return nil
}

// upgradeV3 flattens worksheets and rewrites cells and outputs to version 4.
func upgradeV3(v3 *v3Notebook) (*Notebook, error) {
	nb := &Notebook{
		Metadata:      v3.Metadata,
		NBFormat:      CurrentMajor,
		NBFormatMinor: CurrentMinor,
	}

	for wi, ws := range v3.Worksheets {
		for ci, c := range ws.Cells {
			cell, err := upgradeCell(c)
			if err != nil {
				return nil, fmt.Errorf("%w: worksheet %d cell %d: %v", ErrMalformed, wi, ci, err)
			}
			nb.Cells = append(nb.Cells, cell)
		}
	}
	return nb, nil
}

func upgradeCell(c v3Cell) (Cell, error) {
	switch c.CellType {
	case "code":
		cell := Cell{
			CellType:       CellCode,
			Source:         c.Input,
			ExecutionCount: c.PromptNumber,
			Raw:            c.raw,
		}
		for _, raw := range c.Outputs {
			out, err := upgradeOutput(raw)
			if err != nil {
				return Cell{}, err
			}
			cell.Outputs = append(cell.Outputs, out)
		}
		return cell, nil
	case "heading":
		level := c.Level
		if level < 1 {
			level = 1
		}
		title := strings.Join(strings.Fields(strings.ReplaceAll(string(c.Source), "\n", " ")), " ")
		return Cell{
			CellType: CellMarkdown,
			Source:   MultilineString(strings.Repeat("#", level) + " " + title),
			Raw:      c.raw,
		}, nil
	default:
		// markdown, raw and anything unrecognised keep their type so the
		// caller decides what to do with them.
		return Cell{
			CellType: CellType(c.CellType),
			Source:   c.Source,
			Raw:      c.raw,
		}, nil
	}
}

func upgradeOutput(raw json.RawMessage) (Output, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Output{}, err
	}

	var v3Type string
	if t, ok := fields["output_type"]; ok {
		if err := json.Unmarshal(t, &v3Type); err != nil {
			return Output{}, fmt.Errorf("output_type: %v", err)
		}
	}

	out := Output{OutputType: OutputType(v3Type), Raw: raw}
	if renamed, ok := v3OutputTypes[v3Type]; ok {
		out.OutputType = renamed
	}

	switch out.OutputType {
	case OutputStream:
		if err := decodeField(fields, "stream", &out.Name); err != nil {
			return Output{}, err
		}
		if err := decodeField(fields, "text", &out.Text); err != nil {
			return Output{}, err
		}
	case OutputExecuteResult, OutputDisplayData:
		out.Data = make(map[string]json.RawMessage)
		for short, mime := range v3MIMEKeys {
			if v, ok := fields[short]; ok {
				out.Data[mime] = v
			}
		}
		if out.OutputType == OutputExecuteResult {
			if err := decodeField(fields, "prompt_number", &out.ExecutionCount); err != nil {
				return Output{}, err
			}
		}
	case OutputError:
		if err := decodeField(fields, "ename", &out.EName); err != nil {
			return Output{}, err
		}
		if err := decodeField(fields, "evalue", &out.EValue); err != nil {
			return Output{}, err
		}
		if err := decodeField(fields, "traceback", &out.Traceback); err != nil {
			return Output{}, err
		}
	}
	return out, nil
}

// decodeField decodes fields[key] into dst when present.
func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%s: %v", key, err)
	}
	return nil
}
