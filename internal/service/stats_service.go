package service

import (
	"context"
	"fmt"
	"time"

	"water-report-service/internal/model"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod defaults to month when no period is given.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case "":
		return PeriodMonth, nil
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(raw), nil
	default:
		return "", fmt.Errorf("unknown period %q", raw)
	}
}

type StatsStore interface {
	CountReportedSince(ctx context.Context, since time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	TypesReportedSince(ctx context.Context, since time.Time) ([]model.ReportTypeList, error)
	CountByCity(ctx context.Context, since time.Time, limit int) ([]model.CityCount, error)
	CountByVoivodeship(ctx context.Context, since time.Time) ([]model.VoivodeshipCount, error)
}

type StatsService struct {
	store StatsStore
	now   func() time.Time
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store, now: time.Now}
}

const topCitiesLimit = 10

// GetStats aggregates active reports over the rolling window. A report
// with N types counts once per type, so byType sums to at least the total.
func (s *StatsService) GetStats(ctx context.Context, period Period) (*model.Stats, error) {
	now := s.now()
	windowStart := s.windowStart(period, now)

	total, err := s.store.CountReportedSince(ctx, windowStart)
	if err != nil {
		return nil, err
	}

	typeLists, err := s.store.TypesReportedSince(ctx, windowStart)
	if err != nil {
		return nil, err
	}
	byType := make(map[model.ReportType]int64)
	for _, types := range typeLists {
		for _, t := range types {
			byType[t]++
		}
	}

	byCity, err := s.store.CountByCity(ctx, windowStart, topCitiesLimit)
	if err != nil {
		return nil, err
	}

	byVoivodeship, err := s.store.CountByVoivodeship(ctx, windowStart)
	if err != nil {
		return nil, err
	}

	// Last 24 hours of record creation, independent of the window.
	recent, err := s.store.CountCreatedSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &model.Stats{
		Period:        string(period),
		Total:         total,
		RecentCount:   recent,
		ByType:        byType,
		ByCity:        byCity,
		ByVoivodeship: byVoivodeship,
	}, nil
}

func (s *StatsService) windowStart(period Period, now time.Time) time.Time {
	switch period {
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		return now.Add(-30 * 24 * time.Hour)
	case PeriodYear:
		return now.Add(-365 * 24 * time.Hour)
	default:
		return time.Unix(0, 0)
	}
}
