package invoiceitem

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func usageItem(usageName string, start, end time.Time, amount int64) *InvoiceItem {
	return NewUsageItem(
		"inv_01", "acct_01", "bndl_01", "subs_01",
		"plan-gold", "evergreen", usageName,
		start, end, decimal.NewFromInt(amount), "usd",
	)
}

func TestAmountBilledForPeriod(t *testing.T) {
	start := date(2014, time.March, 20)
	end := date(2014, time.April, 15)

	items := []*InvoiceItem{
		// two matching items sum
		usageItem("data-transfer", start, end, 10),
		usageItem("data-transfer", start, end, 10),
		// same range, different usage name
		usageItem("api-calls", start, end, 7),
		// same name, start off by one day
		usageItem("data-transfer", start.AddDate(0, 0, 1), end, 5),
		// same name, end off by one day
		usageItem("data-transfer", start, end.AddDate(0, 0, -1), 5),
		// fixed item on the period start date
		NewFixedItem("inv_01", "acct_01", "bndl_01", "subs_01", "plan-gold", "evergreen", start, decimal.NewFromInt(30), "usd"),
	}

	billed := AmountBilledForPeriod(items, "data-transfer", start, end)
	assert.True(t, billed.Equal(decimal.NewFromInt(20)), "got %s", billed)
}

func TestAmountBilledForPeriod_NoMatch(t *testing.T) {
	start := date(2014, time.March, 20)
	end := date(2014, time.April, 15)

	t.Run("no items", func(t *testing.T) {
		billed := AmountBilledForPeriod(nil, "data-transfer", start, end)
		assert.True(t, billed.IsZero())
	})

	t.Run("only other periods", func(t *testing.T) {
		items := []*InvoiceItem{
			usageItem("data-transfer", end, date(2014, time.May, 15), 10),
		}
		billed := AmountBilledForPeriod(items, "data-transfer", start, end)
		assert.True(t, billed.IsZero())
	})
}

func TestNewUsageItem(t *testing.T) {
	item := usageItem("data-transfer", date(2014, time.March, 20), date(2014, time.April, 15), 4)

	assert.True(t, item.IsUsage())
	assert.Contains(t, item.ID, "item_")
	assert.Equal(t, "inv_01", item.InvoiceID)
	assert.Equal(t, "subs_01", item.SubscriptionID)
	assert.Equal(t, "data-transfer", item.UsageName)
	assert.Equal(t, "usd", item.Currency)
}

func TestNewFixedItem(t *testing.T) {
	item := NewFixedItem("inv_01", "acct_01", "bndl_01", "subs_01", "plan-gold", "evergreen", date(2014, time.March, 20), decimal.NewFromInt(30), "usd")

	assert.False(t, item.IsUsage())
	assert.Empty(t, item.UsageName)
	assert.True(t, item.EndDate.IsZero())
}
