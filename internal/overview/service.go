// Package overview computes the dashboard aggregates from a record list.
package overview

import (
	"context"
	"time"

	"github.com/nvillagra/prodtrack/internal/clock"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type Overview struct {
	Month        string                                   `json:"month"`
	MonthTotal   decimal.Decimal                          `json:"month_total"`
	MonthlyGoal  decimal.Decimal                          `json:"monthly_goal"`
	GoalProgress float64                                  `json:"goal_progress"`
	CountByType  map[recorddomain.InstallationType]int    `json:"count_by_type"`
	TodayTotal   decimal.Decimal                          `json:"today_total"`
	TodayCount   int                                      `json:"today_count"`
}

type ServiceParam struct {
	fx.In

	Records  recorddomain.Service
	Settings settingsdomain.Store
	Clock    clock.Clock
}

type Service struct {
	records  recorddomain.Service
	settings settingsdomain.Store
	clock    clock.Clock
}

func NewService(p ServiceParam) *Service {
	return &Service{records: p.Records, settings: p.Settings, clock: p.Clock}
}

// Current aggregates the month containing now.
func (s *Service) Current(ctx context.Context) Overview {
	return Build(s.records.List(ctx), s.settings.Load(), s.clock.Now())
}

// Build is pure; records are attributed to their effective date, not their
// creation time.
func Build(records []recorddomain.Record, settings settingsdomain.Settings, now time.Time) Overview {
	month := now.UTC().Format("2006-01")
	today := now.UTC().Format(recorddomain.DateLayout)

	out := Overview{
		Month:       month,
		MonthTotal:  decimal.Zero,
		MonthlyGoal: settings.MonthlyGoal,
		CountByType: make(map[recorddomain.InstallationType]int),
		TodayTotal:  decimal.Zero,
	}

	for _, record := range records {
		if len(record.Date) < len(month) || record.Date[:len(month)] != month {
			continue
		}
		out.MonthTotal = out.MonthTotal.Add(record.Amount)
		out.CountByType[record.Type]++
		if record.Date == today {
			out.TodayTotal = out.TodayTotal.Add(record.Amount)
			out.TodayCount++
		}
	}

	if settings.MonthlyGoal.IsPositive() {
		progress, _ := out.MonthTotal.Div(settings.MonthlyGoal).Float64()
		out.GoalProgress = progress
	}
	return out
}

var Module = fx.Module("overview",
	fx.Provide(NewService),
)
