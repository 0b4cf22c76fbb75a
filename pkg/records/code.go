package records

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCode renders a business code: "<PREFIX>-<YY>-<NNN>", e.g.
// FormatCode("PLAN-INV", 2025, 8) == "PLAN-INV-25-008".
func FormatCode(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%02d-%03d", prefix, year%100, seq)
}

// NextCode returns the code following the highest existing sequence for
// the given prefix and year. maxSeq of 0 means no codes exist yet for
// that year.
func NextCode(prefix string, year, maxSeq int) string {
	return FormatCode(prefix, year, maxSeq+1)
}

// ParseCode splits a business code into prefix, two-digit year, and
// sequence. The prefix itself may contain hyphens, so the code is parsed
// from the right.
func ParseCode(code string) (prefix string, year, seq int, err error) {
	parts := strings.Split(code, "-")
	if len(parts) < 3 {
		return "", 0, 0, fmt.Errorf("malformed code %q", code)
	}

	seqPart := parts[len(parts)-1]
	yearPart := parts[len(parts)-2]

	seq, err = strconv.Atoi(seqPart)
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed sequence in code %q: %w", code, err)
	}
	year, err = strconv.Atoi(yearPart)
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed year in code %q: %w", code, err)
	}

	prefix = strings.Join(parts[:len(parts)-2], "-")
	if prefix == "" {
		return "", 0, 0, fmt.Errorf("malformed code %q", code)
	}
	return prefix, year, seq, nil
}
