package config

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// timeLimitComponent matches one "<amount><unit>" component of a time limit such as "1h 30min".
var timeLimitComponent = regexp.MustCompile(`(\d+)\s*([a-z]*)`)

// maxTimeLimit is the largest time limit a time.Duration can hold.
const maxTimeLimit = time.Duration(math.MaxInt64)

// timeLimitUnits maps accepted unit spellings to their duration.
var timeLimitUnits = map[string]time.Duration{
	"":        time.Second,
	"s":       time.Second,
	"sec":     time.Second,
	"secs":    time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"m":       time.Minute,
	"min":     time.Minute,
	"mins":    time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
}

// ParseTimeLimit parses a campaign time limit made of one or more "<amount><unit>" components ("90", "15min",
// "1h 30min", "2 days"). A bare number is a number of seconds.
func ParseTimeLimit(value string) (time.Duration, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return 0, errors.Errorf("time limit is empty")
	}

	matches := timeLimitComponent.FindAllStringSubmatchIndex(normalized, -1)
	var total time.Duration
	consumed := 0
	for _, match := range matches {
		// Only whitespace may separate components
		if strings.TrimSpace(normalized[consumed:match[0]]) != "" {
			return 0, errors.Errorf("invalid time limit %q", value)
		}
		consumed = match[1]

		unit, ok := timeLimitUnits[normalized[match[4]:match[5]]]
		if !ok {
			return 0, errors.Errorf("invalid time limit unit %q in %q", normalized[match[4]:match[5]], value)
		}
		amount, err := strconv.ParseInt(normalized[match[2]:match[3]], 10, 64)
		if errors.Is(err, strconv.ErrRange) || amount > int64(maxTimeLimit/unit) {
			return 0, errors.Errorf("time limit %q is too large", value)
		} else if err != nil {
			return 0, errors.Errorf("invalid time limit %q", value)
		}
		component := time.Duration(amount) * unit
		if total > maxTimeLimit-component {
			return 0, errors.Errorf("time limit %q is too large", value)
		}
		total += component
	}

	if len(matches) == 0 || strings.TrimSpace(normalized[consumed:]) != "" {
		return 0, errors.Errorf("invalid time limit %q", value)
	}
	if total <= 0 {
		return 0, errors.Errorf("time limit %q must be positive", value)
	}
	return total, nil
}
