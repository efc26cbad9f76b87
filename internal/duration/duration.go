// Package duration provides parsing for human-readable duration strings.
//
// Timeouts are naturally written as Go durations ("90s", "5m"), while
// history retention reads better in days or weeks ("7d", "4w"). Parse
// accepts both so every flag and config key shares one syntax.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var calendar = regexp.MustCompile(`^(\d+)([dw])$`)

// Parse parses "Nd" (days), "Nw" (weeks) or any time.ParseDuration string.
// Negative and zero durations are rejected.
func Parse(s string) (time.Duration, error) {
	if m := calendar.FindStringSubmatch(s); m != nil {
		num, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid number: %w", err)
		}
		d := time.Duration(num) * 24 * time.Hour
		if m[2] == "w" {
			d *= 7
		}
		if d <= 0 {
			return 0, fmt.Errorf("invalid duration: %s (must be positive)", s)
		}
		return d, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s (use 90s, 5m, 7d or 4w)", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration: %s (must be positive)", s)
	}
	return d, nil
}
