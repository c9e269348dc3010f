package types

import (
	"fmt"
	"time"
)

// ToDate normalizes a timestamp to midnight UTC, dropping the time of day.
// All billing boundary arithmetic runs on dates normalized this way.
func ToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToDateIn normalizes a timestamp to the calendar date it falls on in the
// given location, returned as midnight UTC.
func ToDateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(year int, month time.Month) int {
	firstOfNextMonth := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNextMonth.Add(-24 * time.Hour).Day()
}

// NextBillCycleDate returns the earliest date strictly after cur whose
// day-of-month equals the billing cycle day, clamping to the last day of
// short months (BCD 31 lands on Feb 28 in a non leap year).
func NextBillCycleDate(cur time.Time, billCycleDay int) time.Time {
	cur = ToDate(cur)
	year, month, _ := cur.Date()

	for {
		day := billCycleDay
		if last := DaysInMonth(year, month); day > last {
			day = last
		}
		candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if candidate.After(cur) {
			return candidate
		}
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
}

// NextBillingDate calculates the next billing date based on the given start time,
// billing period, and billing period unit (the frequency multiplier).
// For example:
// - If billing period is MONTHLY and unit is 2, we add two months.
// - If billing period is ANNUAL and unit is 1, we add one year.
// - If billing period is WEEKLY and unit is 3, we add 21 days (3 weeks).
// - If billing period is DAILY and unit is 10, we add 10 days.
func NextBillingDate(start time.Time, unit int, period BillingPeriod) (time.Time, error) {
	if unit <= 0 {
		return start, fmt.Errorf("billing period unit must be a positive integer, got %d", unit)
	}

	switch period {
	case BILLING_PERIOD_DAILY:
		return AddClampedDate(start, 0, 0, unit), nil
	case BILLING_PERIOD_WEEKLY:
		// 1 week = 7 days
		return AddClampedDate(start, 0, 0, 7*unit), nil
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(start, 0, unit, 0), nil
	case BILLING_PERIOD_ANNUAL:
		return AddClampedDate(start, unit, 0, 0), nil
	default:
		return start, fmt.Errorf("invalid billing period type: %s", period)
	}
}

// AddClampedDate adds the given years, months and days to t, clamping the
// day of month to the length of the destination month instead of rolling
// over the way time.AddDate does (Jan 31 + 1 month = Feb 28, not Mar 3).
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	// If we move beyond December it adjusts correctly, for example adding
	// 2 months to November lands on January of the next year.
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	lastDay := DaysInMonth(newY, newM)

	newD := d + days
	if newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
}
