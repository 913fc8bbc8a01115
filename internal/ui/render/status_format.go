package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/emview/internal/preview"
)

// formatTextStatus describes a text body for the header, e.g.
// "1.0M lines · head 100 · tail 100".
func formatTextStatus(body *preview.TextBody) string {
	if body == nil {
		return ""
	}
	parts := []string{formatCompactNumber(body.TotalLines) + " lines"}
	if body.Truncated {
		head, tail := 0, 0
		seenGap := false
		for _, n := range body.LineNumbers {
			switch {
			case n == 0:
				seenGap = true
			case seenGap:
				tail++
			default:
				head++
			}
		}
		parts = append(parts, fmt.Sprintf("head %d", head), fmt.Sprintf("tail %d", tail))
	}
	return strings.Join(parts, " · ")
}

func formatCompactNumber(n int) string {
	switch {
	case n >= 1_000_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1fB", float64(n)/1_000_000_000.0))
	case n >= 1_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1fM", float64(n)/1_000_000.0))
	case n >= 1_000:
		return trimTrailingZero(fmt.Sprintf("%.1fk", float64(n)/1_000.0))
	default:
		return fmt.Sprintf("%d", n)
	}
}

// trimTrailingZero turns "1.0M" into "1M".
func trimTrailingZero(s string) string {
	if len(s) < 3 {
		return s
	}
	suffix := s[len(s)-1:]
	number := strings.TrimSuffix(s[:len(s)-1], ".0")
	return number + suffix
}
