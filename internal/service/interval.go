package service

import (
	"sort"
	"time"

	"github.com/tierbill/tierbill/internal/domain/billingevent"
	ierr "github.com/tierbill/tierbill/internal/errors"
	"github.com/tierbill/tierbill/internal/types"
)

// BuildBillingIntervals partitions the interval bounded by the billing
// events into contiguous, billing-cycle-aligned sub-periods.
//
// The bill cycle day and timezone are taken from the first event; a later
// event reporting a different bill cycle day re-anchors boundary generation
// from its own effective date forward. Every event's effective date is
// itself a boundary, so mid-cycle plan changes split the period they fall
// in. When closedInterval is false the trailing sub-period whose end has
// not yet passed relative to targetDate is dropped: usage for an
// in-progress period is never billed early. When closedInterval is true
// (cancellation, final true-up) the interval is bounded by the last event
// and every sub-period is kept.
//
// The function is pure: identical inputs yield identical sub-period lists.
func BuildBillingIntervals(events []*billingevent.BillingEvent, targetDate time.Time, closedInterval bool) ([]billingevent.SubPeriod, error) {
	if len(events) == 0 {
		return nil, ierr.NewError("no billing events").
			WithHint("At least one billing event is required to build an interval").
			Mark(ierr.ErrInvalidBillingInterval)
	}
	if !billingevent.IsSortedByEffectiveDate(events) {
		return nil, ierr.NewError("billing events out of order").
			WithHint("Billing events must be sorted by effective date").
			Mark(ierr.ErrInvalidBillingInterval)
	}

	subscriptionID := events[0].SubscriptionID
	for _, event := range events {
		if err := event.Validate(); err != nil {
			return nil, err
		}
		if event.SubscriptionID != subscriptionID {
			return nil, ierr.NewError("billing events span subscriptions").
				WithHint("All billing events in one interval must belong to the same subscription").
				WithReportableDetails(map[string]any{
					"expected": subscriptionID,
					"got":      event.SubscriptionID,
				}).
				Mark(ierr.ErrInvalidBillingInterval)
		}
	}

	eventDates := make([]time.Time, len(events))
	for i, event := range events {
		eventDates[i] = event.EffectiveLocalDate()
	}

	target := types.ToDate(targetDate)
	limit := eventDates[len(eventDates)-1]
	if !closedInterval && target.After(limit) {
		limit = target
	}

	// Every event date is a boundary; cycle-aligned dates are generated per
	// segment so a changed bill cycle day re-anchors from its event onward.
	boundarySet := make(map[time.Time]struct{})
	for i, event := range events {
		segStart := eventDates[i]
		if segStart.After(limit) {
			break
		}
		boundarySet[segStart] = struct{}{}

		segEnd := limit
		if i+1 < len(events) && eventDates[i+1].Before(limit) {
			segEnd = eventDates[i+1]
		}

		cur := segStart
		for {
			next := types.NextBillCycleDate(cur, event.BillCycleDay)
			if next.After(segEnd) {
				break
			}
			boundarySet[next] = struct{}{}
			cur = next
		}
	}

	boundaries := make([]time.Time, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Slice(boundaries, func(i, j int) bool {
		return boundaries[i].Before(boundaries[j])
	})

	periods := make([]billingevent.SubPeriod, 0, len(boundaries))
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if !closedInterval && end.After(target) {
			break
		}
		periods = append(periods, billingevent.SubPeriod{
			StartDate: start,
			EndDate:   end,
			Event:     governingEvent(events, eventDates, start),
		})
	}

	return periods, nil
}

// governingEvent returns the latest event effective on or before the date
func governingEvent(events []*billingevent.BillingEvent, eventDates []time.Time, date time.Time) *billingevent.BillingEvent {
	governing := events[0]
	for i, eventDate := range eventDates {
		if eventDate.After(date) {
			break
		}
		governing = events[i]
	}
	return governing
}
