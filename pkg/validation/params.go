package validation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sosodev/duration"

	"github.com/quiverhq/quiver/pkg/registry"
)

const secondsPerDay = 24 * 60 * 60

// ValidationError reports a malformed command-line input. Field names the
// offending flag.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// HistoricParameters normalizes a validation period and the two query-count
// thresholds into the parameter record the registry's checkSchema operation
// expects.
//
// The validation period is either a bare integer (a day count, "1" means one
// day) or an ISO-8601 duration ("P1D", "PT6H"). Both forms are accepted; the
// parsed window is converted to seconds and negated, so From is a strictly
// negative offset into the past and To is 0 ("now"). A period that parses to
// zero or cannot be parsed is rejected.
//
// The threshold must be a positive integer; the percentage must lie in
// [0,100] and is stored as a fraction of 1.
func HistoricParameters(validationPeriod string, queryCountThreshold, queryCountThresholdPercentage float64) (*registry.HistoricQueryParameters, error) {
	from := -periodSeconds(validationPeriod)
	if from >= 0 {
		return nil, &ValidationError{
			Field:  "--validationPeriod",
			Reason: fmt.Sprintf("%q is not a valid duration; pass a number of days or an ISO-8601 duration such as P1D", validationPeriod),
		}
	}

	if queryCountThreshold < 1 || queryCountThreshold != math.Trunc(queryCountThreshold) {
		return nil, &ValidationError{
			Field:  "--queryCountThreshold",
			Reason: "must be an integer greater than or equal to 1",
		}
	}

	// NaN fails here as well, comparisons with NaN are always false
	if !(queryCountThresholdPercentage >= 0 && queryCountThresholdPercentage <= 100) {
		return nil, &ValidationError{
			Field:  "--queryCountThresholdPercentage",
			Reason: "must be a number between 0 and 100",
		}
	}

	return &registry.HistoricQueryParameters{
		From:                          from,
		To:                            0,
		QueryCountThreshold:           int(queryCountThreshold),
		QueryCountThresholdPercentage: queryCountThresholdPercentage / 100,
	}, nil
}

// periodSeconds converts a validation period string to seconds. Unparseable
// input yields 0, which the caller rejects.
func periodSeconds(period string) int64 {
	if days, err := strconv.ParseInt(period, 10, 64); err == nil {
		return days * secondsPerDay
	}

	d, err := duration.Parse(period)
	if err != nil {
		return 0
	}
	return int64(d.ToTimeDuration().Seconds())
}
