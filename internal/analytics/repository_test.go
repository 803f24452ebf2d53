package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBucketMonthly(t *testing.T) {
	orders := []orderRevenue{
		{Date: day(2024, time.January, 10), Revenue: 50},
		{Date: day(2024, time.January, 20), Revenue: 70},
		{Date: day(2024, time.February, 5), Revenue: 30},
	}

	got := bucketMonthly(orders)

	assert.Equal(t, []MonthRow{
		{Month: "2024-01", Revenue: 120},
		{Month: "2024-02", Revenue: 30},
	}, got)
}

func TestBucketMonthlyOrdersAcrossYears(t *testing.T) {
	orders := []orderRevenue{
		{Date: day(2025, time.March, 1), Revenue: 10},
		{Date: day(2024, time.December, 31), Revenue: 40},
		{Date: day(2025, time.March, 15), Revenue: 5},
	}

	got := bucketMonthly(orders)

	assert.Equal(t, []MonthRow{
		{Month: "2024-12", Revenue: 40},
		{Month: "2025-03", Revenue: 15},
	}, got)
}

func TestBucketMonthlyEmpty(t *testing.T) {
	assert.Nil(t, bucketMonthly(nil))
}
