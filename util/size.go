package util

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	mult   int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses a human-readable size ("25MB", "512KB", "26214400")
// into bytes. Returns defaultBytes when s is empty.
func ParseSize(s string, defaultBytes int64) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return defaultBytes, nil
	}

	mult := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(v, u.suffix) {
			mult = u.mult
			v = strings.TrimSpace(strings.TrimSuffix(v, u.suffix))
			break
		}
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("size must not be negative: %q", s)
	}
	return n * mult, nil
}

// FormatSize renders bytes using the largest whole unit.
func FormatSize(n int64) string {
	for _, u := range sizeUnits[:3] {
		if n >= u.mult && n%u.mult == 0 {
			return strconv.FormatInt(n/u.mult, 10) + u.suffix
		}
	}
	return strconv.FormatInt(n, 10) + "B"
}
