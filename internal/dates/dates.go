// Package dates parses user-supplied dates and provides the default metrics
// date range.
package dates

import (
	"time"

	"github.com/stephendolan/chartmogul-cli/internal/apierror"
)

// dayFormat is the date format the ChartMogul API expects.
const dayFormat = "2006-01-02"

var acceptedLayouts = []string{
	dayFormat,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Parse validates a user-supplied date and normalizes it to YYYY-MM-DD.
// An unparseable date is a local precondition failure with status 400.
func Parse(input string) (string, error) {
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(dayFormat), nil
		}
	}
	return "", apierror.NewCLIError(400, "Invalid date: %s", input)
}

// DefaultRange returns the last 30 days, the range metrics commands use when
// no explicit dates are given.
func DefaultRange() (startDate, endDate string) {
	now := time.Now()
	return now.AddDate(0, 0, -30).Format(dayFormat), now.Format(dayFormat)
}
