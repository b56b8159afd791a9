package activity

import (
	"fmt"
	"strconv"
	"strings"
)

// Fill substitutes args into tmpl's placeholders in order. The number of
// args must match the number of placeholders exactly.
func Fill(tmpl string, args ...string) (string, error) {
	if got := strings.Count(tmpl, Placeholder); got != len(args) {
		return "", fmt.Errorf("%w: %q has %d placeholders, got %d args", ErrUnresolvedPlaceholder, tmpl, got, len(args))
	}

	var b strings.Builder
	rest := tmpl
	for _, arg := range args {
		i := strings.Index(rest, Placeholder)
		b.WriteString(rest[:i])
		b.WriteString(arg)
		rest = rest[i+len(Placeholder):]
	}
	b.WriteString(rest)
	return b.String(), nil
}

// FormatValue renders a sampled numeric value with a fixed number of decimals.
func FormatValue(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatBatch renders a batch number zero-padded to three digits.
func FormatBatch(n int) string {
	return fmt.Sprintf("%03d", n)
}
