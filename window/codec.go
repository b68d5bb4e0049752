package window

import (
	"fmt"
	"strings"
)

// Helper scripts return optional strings as a record-separated line. Each
// field is "+" followed by the value, or "-" when absent, so an empty value
// ("+") never reads as missing.
const fieldSep = "\x1e"

func encodeFields(fields ...*string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f == nil {
			parts[i] = "-"
		} else {
			parts[i] = "+" + *f
		}
	}
	return strings.Join(parts, fieldSep)
}

func decodeFields(out string, n int) ([]*string, error) {
	out = strings.TrimSuffix(out, "\n")
	parts := strings.Split(out, fieldSep)
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d fields, got %d in %q", n, len(parts), out)
	}
	fields := make([]*string, n)
	for i, p := range parts {
		switch {
		case p == "-":
		case strings.HasPrefix(p, "+"):
			fields[i] = Str(p[1:])
		default:
			return nil, fmt.Errorf("malformed field %d: %q", i, p)
		}
	}
	return fields, nil
}
