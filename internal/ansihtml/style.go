package ansihtml

import (
	"strconv"
	"strings"
)

// Colours used when inverse video is requested without explicit colours.
const (
	inverseDefaultFG = "#ffffff"
	inverseDefaultBG = "#000000"
)

// style is the SGR state applied to a run of text.
type style struct {
	fg, bg    string
	bold      bool
	faint     bool
	italic    bool
	underline bool
	blink     bool
	inverse   bool
	conceal   bool
	strike    bool
}

// css renders the style as an inline declaration list, or "" for plain text.
func (s style) css() string {
	fg, bg := s.fg, s.bg
	if s.inverse {
		fg, bg = bg, fg
		if fg == "" {
			fg = inverseDefaultFG
		}
		if bg == "" {
			bg = inverseDefaultBG
		}
	}

	var decls []string
	if fg != "" {
		decls = append(decls, "color: "+fg)
	}
	if bg != "" {
		decls = append(decls, "background-color: "+bg)
	}
	if s.bold {
		decls = append(decls, "font-weight: bold")
	}
	if s.faint {
		decls = append(decls, "opacity: 0.5")
	}
	if s.italic {
		decls = append(decls, "font-style: italic")
	}

	var deco []string
	if s.underline {
		deco = append(deco, "underline")
	}
	if s.strike {
		deco = append(deco, "line-through")
	}
	if s.blink {
		deco = append(deco, "blink")
	}
	if len(deco) > 0 {
		decls = append(decls, "text-decoration: "+strings.Join(deco, " "))
	}

	if s.conceal {
		decls = append(decls, "visibility: hidden")
	}
	return strings.Join(decls, "; ")
}

// applySGR updates the style from the parameter string of an SGR sequence
// ("1;31", "38;5;208", ""). It reports false when a parameter is not numeric,
// in which case the style is left unchanged.
func (s *style) applySGR(params string, p *Palette) bool {
	codes, ok := parseParams(params)
	if !ok {
		return false
	}

	next := *s
	for i := 0; i < len(codes); i++ {
		code := codes[i]
		switch {
		case code == 0:
			next = style{}
		case code == 1:
			next.bold = true
		case code == 2:
			next.faint = true
		case code == 3:
			next.italic = true
		case code == 4:
			next.underline = true
		case code == 5 || code == 6:
			next.blink = true
		case code == 7:
			next.inverse = true
		case code == 8:
			next.conceal = true
		case code == 9:
			next.strike = true
		case code == 21 || code == 22:
			next.bold, next.faint = false, false
		case code == 23:
			next.italic = false
		case code == 24:
			next.underline = false
		case code == 25:
			next.blink = false
		case code == 27:
			next.inverse = false
		case code == 28:
			next.conceal = false
		case code == 29:
			next.strike = false
		case code >= 30 && code <= 37:
			next.fg = p[code-30]
		case code == 38:
			color, consumed := extendedColor(codes[i+1:], p)
			if color != "" {
				next.fg = color
			}
			i += consumed
		case code == 39:
			next.fg = ""
		case code >= 40 && code <= 47:
			next.bg = p[code-40]
		case code == 48:
			color, consumed := extendedColor(codes[i+1:], p)
			if color != "" {
				next.bg = color
			}
			i += consumed
		case code == 49:
			next.bg = ""
		case code >= 90 && code <= 97:
			next.fg = p[8+code-90]
		case code >= 100 && code <= 107:
			next.bg = p[8+code-100]
		}
	}
	*s = next
	return true
}

// extendedColor decodes the arguments following 38 or 48: "5;n" or "2;r;g;b".
// It returns the colour and the number of arguments consumed.
func extendedColor(args []int, p *Palette) (string, int) {
	if len(args) == 0 {
		return "", 0
	}
	switch args[0] {
	case 5:
		if len(args) < 2 {
			return "", len(args)
		}
		return p.color256(args[1]), 2
	case 2:
		if len(args) < 4 {
			return "", len(args)
		}
		return rgbHex(args[1], args[2], args[3]), 4
	default:
		return "", 1
	}
}

// parseParams splits SGR parameters. Empty fields count as 0 and ':'
// sub-parameter separators are treated like ';'.
func parseParams(params string) ([]int, bool) {
	if params == "" {
		return []int{0}, true
	}
	fields := strings.Split(strings.ReplaceAll(params, ":", ";"), ";")

	codes := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			codes = append(codes, 0)
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, false
		}
		codes = append(codes, n)
	}
	return codes, true
}
