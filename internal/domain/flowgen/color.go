package flowgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DefaultFlowColor is used when the request carries no usable color.
const DefaultFlowColor = 0x4dd0e1

const maxFlowColor = 0xFFFFFF

// CoerceColor turns a JSON number or hex string into a 24-bit color.
func CoerceColor(raw json.RawMessage) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return DefaultFlowColor
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return DefaultFlowColor
		}
		return coerceHexColor(s)
	case 'n', 't', 'f', '[', '{':
		return DefaultFlowColor
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return DefaultFlowColor
		}
		return coerceNumericColor(n)
	}
}

func coerceNumericColor(n float64) int {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return DefaultFlowColor
	}
	v := math.Floor(n)
	if v < 0 {
		return DefaultFlowColor
	}
	if v > maxFlowColor {
		return maxFlowColor
	}
	return int(v)
}

// coerceHexColor parses the leading hex digits after an optional # or 0x prefix.
func coerceHexColor(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}

	value := 0
	digits := 0
	for _, r := range s {
		d, ok := hexDigit(r)
		if !ok {
			break
		}
		digits++
		if value <= maxFlowColor {
			value = value*16 + d
		}
	}
	if digits == 0 {
		return DefaultFlowColor
	}
	if negative {
		return 0
	}
	return min(value, maxFlowColor)
}

func hexDigit(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}

// FormatColor renders a 24-bit color as #rrggbb.
func FormatColor(c int) string {
	return fmt.Sprintf("#%06x", c)
}
