// Package pipeline implements the per-cell stages of notebook conversion.
//
// Each notebook cell flows through the same stages:
//   - output classification: stream, rich display and error records are
//     grouped into HTML, plain, ASCII and error categories
//   - resolution: one representation is chosen per cell (html, markdown,
//     error, ascii, then plain output)
//   - block building: the chosen representation is serialized as a worksheet
//     block with fresh identifiers and a JSON output envelope
//
// Terminal colour codes are rendered by internal/ansihtml; text/markdown
// payloads are rendered with goldmark. Reading notebooks and writing the
// destination file are handled by the root ipynb2sagews package.
package pipeline
