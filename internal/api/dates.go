package api

import (
	"fmt"
	"strings"
	"time"

	"subcon/internal/models"
)

// EffectiveDateLayout is the datetime-local shape operators type dates in
const EffectiveDateLayout = "2006-01-02T15:04"

// wireLayout is the UTC millisecond timestamp the service expects
const wireLayout = "2006-01-02T15:04:05.000Z"

var localLayouts = []string{
	EffectiveDateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizeEffectiveDate converts an operator-supplied date into an absolute
// UTC timestamp ending in Z. Input without a zone is read in loc.
func NormalizeEffectiveDate(input string, loc *time.Location) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", models.ErrMissingFields
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return t.UTC().Format(wireLayout), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t.UTC().Format(wireLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", models.ErrInvalidEffectiveDate, input)
}

// FormatEffectiveDate renders t in the datetime-local shape used as the
// console's default effective date
func FormatEffectiveDate(t time.Time) string {
	return t.Format(EffectiveDateLayout)
}
