package common

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

const (
	KB int64 = 1 << (10 * (iota + 1))
	MB
	GB
	TB
)

// Short units are binary here, so they map to humanize's IEC names.
var binaryUnits = map[string]string{
	"k": "kib", "kb": "kib",
	"m": "mib", "mb": "mib",
	"g": "gib", "gb": "gib",
	"t": "tib", "tb": "tib",
}

// ParseSize parses sizes like "512", "10m", "1.5k" or "2 GB". Units are
// binary and case-insensitive.
func ParseSize(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	num := strings.TrimRightFunc(s, unicode.IsLetter)
	unit := s[len(num):]
	if iec, ok := binaryUnits[unit]; ok {
		unit = iec
	}

	n, err := humanize.ParseBytes(num + unit)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size %q too large", s)
	}
	return int64(n), nil
}
