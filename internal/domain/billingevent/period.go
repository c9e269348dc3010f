package billingevent

import "time"

// SubPeriod is one billing-cycle-aligned slice [StartDate, EndDate) of the
// interval under reconciliation. Dates are midnight-UTC normalized. Event
// is the billing event governing the slice: the latest event effective on
// or before StartDate, which supplies currency and identity for any item
// emitted against the slice.
type SubPeriod struct {
	StartDate time.Time
	EndDate   time.Time
	Event     *BillingEvent
}

// Contains reports whether the date falls inside the half-open period
func (p SubPeriod) Contains(d time.Time) bool {
	return !d.Before(p.StartDate) && d.Before(p.EndDate)
}

// Matches reports whether the period covers exactly [start, end)
func (p SubPeriod) Matches(start, end time.Time) bool {
	return p.StartDate.Equal(start) && p.EndDate.Equal(end)
}
