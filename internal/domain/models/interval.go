package models

import "fmt"

// Interval is a candle bucket width from the fixed set the UI offers.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

var intervalMillis = map[Interval]int64{
	Interval1m:  60 * 1000,
	Interval5m:  5 * 60 * 1000,
	Interval15m: 15 * 60 * 1000,
	Interval30m: 30 * 60 * 1000,
	Interval1h:  60 * 60 * 1000,
	Interval4h:  4 * 60 * 60 * 1000,
	Interval1d:  24 * 60 * 60 * 1000,
}

// ParseInterval converts a raw string to a supported interval.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(s)
	if _, ok := intervalMillis[iv]; !ok {
		return "", fmt.Errorf("interval %q not supported: %w", s, ErrInvalidInput)
	}
	return iv, nil
}

// DefaultInterval is what the candle endpoint falls back to.
func DefaultInterval() Interval { return Interval1h }

// Millis returns the interval width in milliseconds.
func (iv Interval) Millis() int64 { return intervalMillis[iv] }

// IsValid reports whether iv is one of the supported intervals.
func (iv Interval) IsValid() bool {
	_, ok := intervalMillis[iv]
	return ok
}
