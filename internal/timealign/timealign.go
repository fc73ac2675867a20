package timealign

import (
	"context"
	"fmt"
	"time"

	"sentimentMarket/internal/ports"
)

// Accepted input layouts. Dates may also arrive with a time component glued
// on (spreadsheet exports do this), so datetime layouts are tried as well.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"01/02/2006 15:04",
	"02-Jan-2006",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04:05 PM",
	"2006-01-02 15:04:05", // full datetime in the Time column; only the clock is used
}

// Aligner merges a calendar date and a clock time into a single instant in
// the market's local timezone and converts it to UTC for bar lookups.
type Aligner struct {
	loc      *time.Location
	openHour int
	openMin  int
	logger   ports.Logger
}

// Config holds construction parameters for an Aligner.
type Config struct {
	// MarketTimezone is an IANA zone name, e.g. "America/New_York".
	MarketTimezone string
	// OpenHour/OpenMinute define the default clock time applied when a row
	// has no usable Time value. 09:30 is the market open.
	OpenHour   int
	OpenMinute int
	Logger     ports.Logger
}

// New creates an Aligner for the given market timezone. If the system
// timezone database cannot resolve the zone, a fixed UTC-5 offset is
// substituted so the run can proceed; this is an approximation that ignores
// DST transitions, and a warning is logged.
func New(cfg Config) (*Aligner, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for time aligner")
	}
	zone := cfg.MarketTimezone
	if zone == "" {
		zone = "America/New_York"
	}
	openHour, openMin := cfg.OpenHour, cfg.OpenMinute
	if openHour == 0 && openMin == 0 {
		openHour, openMin = 9, 30
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
		cfg.Logger.Warn(context.Background(), "Timezone database unavailable, falling back to fixed UTC-5",
			map[string]interface{}{"zone": zone, "error": err.Error()})
	}

	return &Aligner{
		loc:      loc,
		openHour: openHour,
		openMin:  openMin,
		logger:   cfg.Logger,
	}, nil
}

// Align combines a raw date and an optional raw time into a UTC instant.
// The clock defaults to the market open when timeStr is empty or unparseable.
// On date-parse failure it logs the raw inputs and returns ok=false; it never
// returns an error to the caller, since a bad row must not abort the batch.
func (a *Aligner) Align(ctx context.Context, dateStr, timeStr string) (time.Time, bool) {
	day, err := parseDate(dateStr)
	if err != nil {
		a.logger.Warn(ctx, "Could not parse article date, skipping market lookup",
			map[string]interface{}{"date": dateStr, "time": timeStr, "error": err.Error()})
		return time.Time{}, false
	}

	hour, minute, sec := a.openHour, a.openMin, 0
	if timeStr != "" {
		if clock, err := parseClock(timeStr); err == nil {
			hour, minute, sec = clock.Hour(), clock.Minute(), clock.Second()
		}
		// Unparseable time sticks with the market-open default.
	}

	local := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, sec, 0, a.loc)
	return local.UTC(), true
}

// NormalizeDate reformats a raw date value to YYYY-MM-DD. The raw value is
// returned unchanged when it cannot be parsed.
func NormalizeDate(raw string) string {
	day, err := parseDate(raw)
	if err != nil {
		return raw
	}
	return day.Format("2006-01-02")
}

// NormalizeClock reformats a raw time value to a bare HH:MM:SS string,
// stripping any date component. The raw value is returned unchanged when it
// cannot be parsed.
func NormalizeClock(raw string) string {
	if raw == "" {
		return raw
	}
	clock, err := parseClock(raw)
	if err != nil {
		return raw
	}
	return clock.Format("15:04:05")
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}

func parseClock(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", raw)
}
