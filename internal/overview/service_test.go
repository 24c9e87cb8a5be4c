package overview

import (
	"testing"
	"time"

	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBuildAggregatesCurrentMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	records := []recorddomain.Record{
		{Type: recorddomain.TypeResidential, Amount: decimal.NewFromInt(7), Date: "2026-03-01"},
		{Type: recorddomain.TypeResidential, Amount: decimal.NewFromInt(7), Date: "2026-03-15"},
		{Type: recorddomain.TypeCorporate, Amount: decimal.NewFromInt(12), Date: "2026-03-15"},
		// Previous month, excluded.
		{Type: recorddomain.TypePole, Amount: decimal.NewFromInt(5), Date: "2026-02-28"},
	}
	settings := settingsdomain.Settings{MonthlyGoal: decimal.NewFromInt(52)}

	out := Build(records, settings, now)

	require.Equal(t, "2026-03", out.Month)
	require.True(t, out.MonthTotal.Equal(decimal.NewFromInt(26)), "month total %s", out.MonthTotal)
	require.Equal(t, 2, out.CountByType[recorddomain.TypeResidential])
	require.Equal(t, 1, out.CountByType[recorddomain.TypeCorporate])
	require.Zero(t, out.CountByType[recorddomain.TypePole])

	require.True(t, out.TodayTotal.Equal(decimal.NewFromInt(19)), "today total %s", out.TodayTotal)
	require.Equal(t, 2, out.TodayCount)

	require.InDelta(t, 0.5, out.GoalProgress, 0.001)
}

func TestBuildUsesEffectiveDateNotCreation(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)
	records := []recorddomain.Record{
		// Logged in March for February; attributed to February.
		{
			Type:      recorddomain.TypeResidential,
			Amount:    decimal.NewFromInt(7),
			Date:      "2026-02-28",
			CreatedAt: now,
		},
	}

	out := Build(records, settingsdomain.Settings{}, now)
	require.True(t, out.MonthTotal.IsZero())
	require.Zero(t, out.TodayCount)
}

func TestBuildZeroGoalMeansNoProgress(t *testing.T) {
	records := []recorddomain.Record{
		{Type: recorddomain.TypeResidential, Amount: decimal.NewFromInt(7), Date: "2026-03-10"},
	}
	out := Build(records, settingsdomain.Settings{}, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	require.Zero(t, out.GoalProgress)
}

func TestBuildEmptyList(t *testing.T) {
	out := Build(nil, settingsdomain.Settings{MonthlyGoal: decimal.NewFromInt(100)}, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	require.True(t, out.MonthTotal.IsZero())
	require.Empty(t, out.CountByType)
	require.Zero(t, out.GoalProgress)
}
