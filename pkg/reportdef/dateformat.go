package reportdef

import (
	"fmt"
	"strings"
	"time"
)

// Stored schemas declare date formats with the character tokens common in
// dynamic reporting stacks (Y-m-d, d/m/Y H:i). Each token maps to the Go
// reference-time equivalent; any other letter is a configuration error.
var dateFormatTokens = map[rune]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'n': "1",
	'd': "02",
	'j': "2",
	'H': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'A': "PM",
	'a': "pm",
	'D': "Mon",
	'l': "Monday",
	'M': "Jan",
	'F': "January",
}

// dateLayout translates a token format into a Go time layout. A backslash
// escapes the next character as a literal.
func dateLayout(format string) (string, error) {
	var b strings.Builder
	escaped := false
	for _, r := range format {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if layout, ok := dateFormatTokens[r]; ok {
			b.WriteString(layout)
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return "", fmt.Errorf("%w: unsupported date format token %q in %q", ErrInvalidConfiguration, r, format)
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// parseDateStrict parses raw against the token format and rejects any value
// that does not reproduce raw byte-for-byte when reformatted. The round trip
// catches ambiguous or partial parses the parser would otherwise absorb.
func parseDateStrict(format, raw string) error {
	layout, err := dateLayout(format)
	if err != nil {
		return err
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return fmt.Errorf("%w: %q does not match date format %q", ErrInvalidValue, raw, format)
	}
	if t.Format(layout) != raw {
		return fmt.Errorf("%w: %q does not round-trip through date format %q", ErrInvalidValue, raw, format)
	}
	return nil
}
