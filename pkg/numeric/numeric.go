// Package numeric parses and renders Pactum's decimal-string integers:
// non-negative values matching ^(0|[1-9][0-9]*)$, stored internally as
// uint64 and stringified at every boundary so canonical JSON never carries
// a native number.
package numeric

import (
	"strconv"

	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
)

// Parse validates s against the decimal-string regex and returns its value.
func Parse(s string) (uint64, error) {
	if s == "0" {
		return 0, nil
	}
	if s == "" || s[0] == '0' {
		return 0, pacterr.New(pacterr.InvalidNumeric, "%q", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, pacterr.New(pacterr.InvalidNumeric, "%q", s)
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, pacterr.New(pacterr.InvalidNumeric, "%q", s)
	}
	return v, nil
}

// String renders v as a canonical decimal string.
func String(v uint64) string {
	return strconv.FormatUint(v, 10)
}
