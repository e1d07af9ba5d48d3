package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDateParse is returned when a record date matches none of DateLayouts.
var ErrDateParse = errors.New("date parse error")

// DateLayouts are the accepted record date formats, tried in order.
var DateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"2006/01/02",
}

// ParseDate parses a record date using the first layout in DateLayouts that fits.
func ParseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateParse, s)
}
