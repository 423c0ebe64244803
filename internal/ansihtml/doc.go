// Package ansihtml renders terminal output into an HTML fragment.
//
// Jupyter stores console streams and error tracebacks verbatim, including the
// ANSI escape sequences that colour them. Worksheets display HTML, so each
// fragment is rewritten as a fixed-width block with inline styles only:
//
//	conv := ansihtml.New()
//	html := conv.Convert("\x1b[31mError\x1b[0m: see https://example.org")
//	// <pre><span style="font-family:monospace;"><span style="color: #aa0000">Error</span>: see <a href="https://example.org">https://example.org</a></span></pre>
//
// SGR (Select Graphic Rendition) sequences become styled spans. Other well-formed
// CSI and OSC sequences are dropped. Malformed sequences never fail: the escape
// byte is removed and whatever follows is rendered as plain text. Other control
// bytes such as carriage returns are kept as literal text, and only &, < and >
// are escaped outside attributes.
package ansihtml
