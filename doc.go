// Package ipynb2sagews converts Jupyter notebooks (.ipynb) to Sage worksheets (.sagews).
//
// # Quick Start
//
// Create a converter and convert a file next to its source:
//
//	conv := ipynb2sagews.NewConverter()
//	stats, err := conv.ConvertFile(ctx, "analysis.ipynb", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", stats.Blocks, "blocks")
//
// ConvertFile refuses to replace an existing worksheet unless WithOverwrite(true)
// is set, and creates nothing when the notebook cannot be decoded. Convert does
// the same work on an io.Reader and an io.Writer.
//
// # Conversion Pipeline
//
// Each notebook goes through these stages:
//
//  1. Decoding, with nbformat 3 documents upgraded to version 4
//  2. A header block that starts the notebook's Jupyter kernel
//  3. One block per cell: markdown cells as %md blocks, code cells with a
//     single output chosen by precedence (html, error, stream, plain text)
//  4. Terminal output (streams, tracebacks) rendered as inline-styled HTML
//
// Cells and outputs of unknown types are skipped and reported through the
// handler set with WithWarningHandler; they never fail the conversion.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := ipynb2sagews.NewConverter(
//	    ipynb2sagews.WithOverwrite(true),
//	    ipynb2sagews.WithDefaultKernel("sagemath"),
//	    ipynb2sagews.WithImages(true),
//	    ipynb2sagews.WithMarkdownOutputs(true),
//	    ipynb2sagews.WithWarningHandler(func(w ipynb2sagews.Warning) {
//	        log.Println("warning:", w)
//	    }),
//	)
//
// # Parallel Processing
//
// A Converter is safe for concurrent use. For batch conversion with a bounded
// number of workers, use ConverterPool:
//
//	pool := ipynb2sagews.NewConverterPool(ipynb2sagews.ResolvePoolSize(0))
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//
// # Error Handling
//
// Errors wrap sentinels that can be checked with errors.Is: ErrFormat for
// undecodable notebooks (ErrUnsupportedVersion for unknown format versions)
// and ErrAlreadyExists for existing destinations.
package ipynb2sagews
