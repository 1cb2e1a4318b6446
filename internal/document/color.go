package document

import (
	"strings"

	"github.com/gogpu/gg"
)

// AlphaEpsilon is the alpha below which paint is treated as invisible.
const AlphaEpsilon = 0.001

// ParseColor converts "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA" into a
// colour. The keyword "transparent", an empty string and malformed input
// all yield zero alpha.
func ParseColor(s string) gg.RGBA {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, Transparent) {
		return gg.RGBA{}
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return gg.RGBA{}
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return gg.RGBA{}
		}
	}
	return gg.Hex(hex)
}

// IsVisibleColor reports whether s parses to a colour with non-negligible
// alpha.
func IsVisibleColor(s string) bool {
	return ParseColor(s).A > AlphaEpsilon
}
