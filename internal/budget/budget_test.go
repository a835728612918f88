package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/brewburn/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func spend(date time.Time, price int64) model.LedgerEntry {
	return model.LedgerEntry{
		Date:      date,
		Weekday:   date.Weekday(),
		ItemName:  "lager",
		UnitPrice: decimal.NewNullDecimal(decimal.NewFromInt(price)),
	}
}

func fixedProjector(now time.Time) *Projector {
	p := NewProjector(nil)
	p.Now = func() time.Time { return now }
	return p
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		now     time.Time
		wantEnd time.Time
	}{
		{day(2024, 7, 1), day(2024, 7, 7)},   // Monday
		{day(2024, 7, 3), day(2024, 7, 7)},   // Wednesday
		{day(2024, 7, 6), day(2024, 7, 7)},   // Saturday
		{day(2024, 7, 7), day(2024, 7, 7)},   // Sunday
		{day(2024, 12, 30), day(2025, 1, 5)}, // across the year
	}
	for _, tt := range tests {
		start, end := WeekWindow(tt.now.Add(13 * time.Hour))
		assert.Equal(t, tt.now, start, "start for %s", tt.now.Weekday())
		assert.Equal(t, tt.wantEnd, end, "end for %s", tt.now.Weekday())
		assert.Equal(t, time.Sunday, end.Weekday())
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(day(2024, 2, 17))
	assert.Equal(t, day(2024, 2, 1), start)
	assert.Equal(t, day(2024, 2, 29), end)

	start, end = MonthWindow(day(2024, 12, 31))
	assert.Equal(t, day(2024, 12, 1), start)
	assert.Equal(t, day(2024, 12, 31), end)
}

func TestProjectMonthly_EmptyLedger(t *testing.T) {
	p := fixedProjector(day(2024, 7, 10))
	period := p.ProjectMonthly(nil, DefaultMonthly)

	assert.Equal(t, "2024-07", period.Label)
	assert.True(t, period.Spent.IsZero())
	assert.Equal(t, "5000", period.Remaining.String())
	assert.False(t, period.Exhausted)
	assert.Equal(t, 0, period.Entries)

	require.Len(t, period.TierCounts, 3)
	assert.Equal(t, int64(29), period.TierCounts[0].Count)
	assert.Equal(t, int64(20), period.TierCounts[1].Count)
	assert.Equal(t, int64(10), period.TierCounts[2].Count)
}

func TestProjectMonthly_CountsOnlyCurrentMonth(t *testing.T) {
	entries := []model.LedgerEntry{
		spend(day(2024, 6, 30), 999),
		spend(day(2024, 7, 1), 200),
		spend(day(2024, 7, 31), 300),
		spend(day(2024, 8, 1), 999),
		{Date: day(2024, 7, 15), ItemName: "no price"},
	}
	period := fixedProjector(day(2024, 7, 20)).ProjectMonthly(entries, DefaultMonthly)

	assert.Equal(t, "500", period.Spent.String())
	assert.Equal(t, "4500", period.Remaining.String())
	assert.Equal(t, 3, period.Entries)
	assert.Equal(t, int64(26), period.TierCounts[0].Count)
	assert.Equal(t, int64(18), period.TierCounts[1].Count)
	assert.Equal(t, int64(9), period.TierCounts[2].Count)
}

func TestProjectWeekly_WindowIsTodayThroughSunday(t *testing.T) {
	entries := []model.LedgerEntry{
		spend(day(2024, 7, 2), 500), // Tuesday, before today
		spend(day(2024, 7, 3), 240), // today
		spend(day(2024, 7, 7), 170), // Sunday
		spend(day(2024, 7, 8), 500), // next Monday
	}
	period := fixedProjector(day(2024, 7, 3)).ProjectWeekly(entries, DefaultWeekly)

	assert.Equal(t, "2024-07-03 ~ 2024-07-07", period.Label)
	assert.Equal(t, "410", period.Spent.String())
	assert.Equal(t, "840", period.Remaining.String())
	assert.Equal(t, 2, period.Entries)
	assert.Equal(t, int64(4), period.TierCounts[0].Count)
	assert.Equal(t, int64(3), period.TierCounts[1].Count)
	assert.Equal(t, int64(1), period.TierCounts[2].Count)
}

func TestProjectWeekly_SundayIsSingleDay(t *testing.T) {
	entries := []model.LedgerEntry{
		spend(day(2024, 7, 6), 300),
		spend(day(2024, 7, 7), 100),
	}
	period := fixedProjector(day(2024, 7, 7)).ProjectWeekly(entries, DefaultWeekly)
	assert.True(t, period.WindowStart.Equal(period.WindowEnd))
	assert.Equal(t, "100", period.Spent.String())
}

func TestProject_Exhausted(t *testing.T) {
	entries := []model.LedgerEntry{spend(day(2024, 7, 3), 1300)}
	period := fixedProjector(day(2024, 7, 3)).ProjectWeekly(entries, DefaultWeekly)

	assert.True(t, period.Exhausted)
	assert.Equal(t, "-50", period.Remaining.String())
	assert.Empty(t, period.TierCounts)
}

func TestProject_ExactlySpentIsNotExhausted(t *testing.T) {
	entries := []model.LedgerEntry{spend(day(2024, 7, 3), 1250)}
	period := fixedProjector(day(2024, 7, 3)).ProjectWeekly(entries, DefaultWeekly)

	assert.False(t, period.Exhausted)
	for _, tc := range period.TierCounts {
		assert.Zero(t, tc.Count)
	}
	assert.InDelta(t, 1.0, period.UsedPercent(), 1e-9)
}

func TestMonthlyHistory(t *testing.T) {
	entries := []model.LedgerEntry{
		spend(day(2024, 7, 3), 200),
		spend(day(2024, 4, 10), 100),
		spend(day(2024, 4, 20), 150),
		spend(day(2024, 6, 1), 300),
	}
	history := MonthlyHistory(entries)
	require.Len(t, history, 4)

	assert.Equal(t, day(2024, 4, 1), history[0].Month)
	assert.Equal(t, "250", history[0].Spent.String())
	assert.Equal(t, 2, history[0].Entries)

	assert.Equal(t, day(2024, 5, 1), history[1].Month)
	assert.True(t, history[1].Spent.IsZero())
	assert.Equal(t, 0, history[1].Entries)

	assert.Equal(t, day(2024, 7, 1), history[3].Month)

	assert.Nil(t, MonthlyHistory(nil))
}

func TestCheckMonthly(t *testing.T) {
	assert.NoError(t, CheckMonthly(decimal.NewFromInt(MinMonthly)))
	assert.NoError(t, CheckMonthly(decimal.NewFromInt(MaxMonthly)))
	assert.NoError(t, CheckMonthly(DefaultMonthly))
	require.ErrorIs(t, CheckMonthly(decimal.NewFromInt(999)), ErrOutOfBounds)
	require.ErrorIs(t, CheckMonthly(decimal.NewFromInt(10001)), ErrOutOfBounds)
}
