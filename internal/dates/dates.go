// Package dates provides UTC-safe day-count arithmetic for expiration math.
package dates

import (
	"time"

	"options-simulator/internal/models"
)

// DefaultExpirationDays is the horizon assumed for a contract without a
// parseable expiration date. UI responsiveness must not depend on
// well-formed upstream data, so a missing date degrades to this floor.
const DefaultExpirationDays = 30

// utcDay truncates a time to its UTC calendar day. All day counting runs on
// UTC dates so the result cannot shift by one across client time zones.
func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// calendarDaysBetween returns the whole calendar days from a to b in UTC.
func calendarDaysBetween(a, b time.Time) int {
	return int(utcDay(b).Sub(utcDay(a)).Hours() / 24)
}

// DaysUntilExpiration returns the calendar days remaining on a contract as of
// today plus a simulated offset, clamped at zero. A nil expiration falls back
// to defaultDays (use DefaultExpirationDays unless a caller knows better).
func DaysUntilExpiration(expiration *time.Time, now time.Time, asOfOffsetDays, defaultDays int) int {
	if expiration == nil {
		remaining := defaultDays - asOfOffsetDays
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	remaining := calendarDaysBetween(now, *expiration) - asOfOffsetDays
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ContractDays returns the days remaining on a contract leg, applying the
// default horizon for legs without an expiration date.
func ContractDays(c models.OptionContract, now time.Time, asOfOffsetDays int) int {
	return DaysUntilExpiration(c.Expiration, now, asOfOffsetDays, DefaultExpirationDays)
}

// MaxHorizonDays returns the maximum raw days-to-expiration across a set of
// contracts, ignoring any simulated offset. Callers use it to bound the
// valid range of the days-passed control.
func MaxHorizonDays(contracts []models.OptionContract, now time.Time) int {
	max := 0
	for _, c := range contracts {
		days := DaysUntilExpiration(c.Expiration, now, 0, DefaultExpirationDays)
		if days > max {
			max = days
		}
	}
	return max
}
