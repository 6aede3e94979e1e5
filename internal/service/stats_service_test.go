package service

import (
	"context"
	"testing"
	"time"

	"water-report-service/internal/model"
)

type statsReport struct {
	types       model.ReportTypeList
	city        *string
	voivodeship *string
	reportedAt  time.Time
	createdAt   time.Time
	status      model.ReportStatus
}

type fakeStatsStore struct {
	reports []statsReport
}

func (f *fakeStatsStore) active(since time.Time) []statsReport {
	var out []statsReport
	for _, r := range f.reports {
		if r.status != model.ReportStatusActive {
			continue
		}
		if r.reportedAt.Before(since) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f *fakeStatsStore) CountReportedSince(_ context.Context, since time.Time) (int64, error) {
	return int64(len(f.active(since))), nil
}

func (f *fakeStatsStore) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var count int64
	for _, r := range f.reports {
		if r.status == model.ReportStatusActive && !r.createdAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStatsStore) TypesReportedSince(_ context.Context, since time.Time) ([]model.ReportTypeList, error) {
	var out []model.ReportTypeList
	for _, r := range f.active(since) {
		out = append(out, r.types)
	}
	return out, nil
}

func (f *fakeStatsStore) CountByCity(_ context.Context, since time.Time, limit int) ([]model.CityCount, error) {
	counts := make(map[string]int64)
	for _, r := range f.active(since) {
		if r.city != nil {
			counts[*r.city]++
		}
	}
	var out []model.CityCount
	for city, count := range counts {
		out = append(out, model.CityCount{City: city, Count: count})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStatsStore) CountByVoivodeship(_ context.Context, since time.Time) ([]model.VoivodeshipCount, error) {
	counts := make(map[string]int64)
	for _, r := range f.active(since) {
		if r.voivodeship != nil {
			counts[*r.voivodeship]++
		}
	}
	var out []model.VoivodeshipCount
	for v, count := range counts {
		out = append(out, model.VoivodeshipCount{Voivodeship: v, Count: count})
	}
	return out, nil
}

func TestParsePeriod(t *testing.T) {
	if p, err := ParsePeriod(""); err != nil || p != PeriodMonth {
		t.Errorf("ParsePeriod(\"\") = %v, %v; want month default", p, err)
	}
	for _, valid := range []string{"week", "month", "year", "all"} {
		if _, err := ParsePeriod(valid); err != nil {
			t.Errorf("ParsePeriod(%q) error: %v", valid, err)
		}
	}
	if _, err := ParsePeriod("decade"); err == nil {
		t.Error("ParsePeriod should reject unknown periods")
	}
}

func TestGetStatsWindowing(t *testing.T) {
	now := time.Date(2024, 11, 20, 12, 0, 0, 0, time.UTC)
	warsaw := "Warszawa"
	mazowieckie := "mazowieckie"

	store := &fakeStatsStore{reports: []statsReport{
		{
			types:       model.ReportTypeList{model.ReportTypeBrownWater},
			city:        &warsaw,
			voivodeship: &mazowieckie,
			reportedAt:  now.Add(-3 * 24 * time.Hour),
			createdAt:   now.Add(-3 * 24 * time.Hour),
			status:      model.ReportStatusActive,
		},
		{
			types:      model.ReportTypeList{model.ReportTypeBadSmell},
			reportedAt: now.Add(-40 * 24 * time.Hour),
			createdAt:  now.Add(-40 * 24 * time.Hour),
			status:     model.ReportStatusActive,
		},
		{
			types:      model.ReportTypeList{model.ReportTypeSediment},
			reportedAt: now.Add(-time.Hour),
			createdAt:  now.Add(-time.Hour),
			status:     model.ReportStatusDeleted,
		},
	}}

	svc := NewStatsService(store)
	svc.now = func() time.Time { return now }

	week, err := svc.GetStats(context.Background(), PeriodWeek)
	if err != nil {
		t.Fatalf("GetStats(week) error: %v", err)
	}
	if week.Total != 1 {
		t.Errorf("week total = %d, want 1 (40-day-old and deleted reports excluded)", week.Total)
	}
	if len(week.ByCity) != 1 || week.ByCity[0].City != "Warszawa" {
		t.Errorf("week byCity = %v", week.ByCity)
	}
	if len(week.ByVoivodeship) != 1 || week.ByVoivodeship[0].Voivodeship != "mazowieckie" {
		t.Errorf("week byVoivodeship = %v", week.ByVoivodeship)
	}

	all, err := svc.GetStats(context.Background(), PeriodAll)
	if err != nil {
		t.Fatalf("GetStats(all) error: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("all total = %d, want 2", all.Total)
	}
	if all.Period != "all" {
		t.Errorf("period = %q, want all", all.Period)
	}
}

func TestGetStatsByTypeCountsEachTypeOnce(t *testing.T) {
	now := time.Date(2024, 11, 20, 12, 0, 0, 0, time.UTC)
	store := &fakeStatsStore{reports: []statsReport{
		{
			types:      model.ReportTypeList{model.ReportTypeBrownWater, model.ReportTypeBadSmell, model.ReportTypeSediment},
			reportedAt: now.Add(-time.Hour),
			createdAt:  now.Add(-time.Hour),
			status:     model.ReportStatusActive,
		},
		{
			types:      model.ReportTypeList{model.ReportTypeBrownWater},
			reportedAt: now.Add(-2 * time.Hour),
			createdAt:  now.Add(-2 * time.Hour),
			status:     model.ReportStatusActive,
		},
	}}

	svc := NewStatsService(store)
	svc.now = func() time.Time { return now }

	stats, err := svc.GetStats(context.Background(), PeriodMonth)
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}

	if stats.ByType[model.ReportTypeBrownWater] != 2 {
		t.Errorf("brown_water = %d, want 2", stats.ByType[model.ReportTypeBrownWater])
	}
	if stats.ByType[model.ReportTypeBadSmell] != 1 || stats.ByType[model.ReportTypeSediment] != 1 {
		t.Errorf("byType = %v", stats.ByType)
	}

	var sum int64
	for _, count := range stats.ByType {
		sum += count
	}
	if sum < stats.Total {
		t.Errorf("sum(byType) = %d must be >= total = %d", sum, stats.Total)
	}
}

func TestGetStatsRecentCountUsesCreatedAt(t *testing.T) {
	now := time.Date(2024, 11, 20, 12, 0, 0, 0, time.UTC)
	store := &fakeStatsStore{reports: []statsReport{
		// Observed long ago, submitted an hour ago: counts as recent.
		{
			types:      model.ReportTypeList{model.ReportTypeOther},
			reportedAt: now.Add(-60 * 24 * time.Hour),
			createdAt:  now.Add(-time.Hour),
			status:     model.ReportStatusActive,
		},
		// Submitted two days ago: not recent.
		{
			types:      model.ReportTypeList{model.ReportTypeOther},
			reportedAt: now.Add(-time.Hour),
			createdAt:  now.Add(-48 * time.Hour),
			status:     model.ReportStatusActive,
		},
	}}

	svc := NewStatsService(store)
	svc.now = func() time.Time { return now }

	stats, err := svc.GetStats(context.Background(), PeriodWeek)
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.RecentCount != 1 {
		t.Errorf("recentCount = %d, want 1", stats.RecentCount)
	}
}
