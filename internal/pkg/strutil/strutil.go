// Package strutil holds small string conversions used by the HTTP and CLI surfaces.
package strutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatBytes renders a byte count with 1024-based units and at most two decimals, e.g. "1.5 KB".
func FormatBytes(bytes uint64) string {
	if bytes == 0 {
		return "0 Bytes"
	}

	const k = 1024.0
	value := float64(bytes)
	i := int(math.Floor(math.Log(value) / math.Log(k)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	scaled := value / math.Pow(k, float64(i))
	return humanize.FtoaWithDigits(scaled, 2) + " " + byteUnits[i]
}

// ParseID parses a positive record key from a path or argument
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be positive", s)
	}
	return id, nil
}
