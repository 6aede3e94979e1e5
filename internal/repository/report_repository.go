package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"water-report-service/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Bounds is a geographic bounding box filter.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

type ReportFilter struct {
	Statuses []model.ReportStatus
	Types    []model.ReportType
	Bounds   *Bounds
	City     string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

func (r *ReportRepository) List(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	query := r.db.WithContext(ctx).Model(&model.Report{})

	if len(filter.Statuses) > 0 {
		query = query.Where("reports.status IN ?", filter.Statuses)
	}
	if len(filter.Types) > 0 {
		query = query.Where("reports.types && ?::text[]", model.ReportTypeList(filter.Types))
	}
	if filter.Bounds != nil {
		query = query.
			Where("reports.latitude BETWEEN ? AND ?", filter.Bounds.South, filter.Bounds.North).
			Where("reports.longitude BETWEEN ? AND ?", filter.Bounds.West, filter.Bounds.East)
	}
	if filter.City != "" {
		query = query.Where("reports.city = ?", filter.City)
	}
	if filter.DateFrom != nil {
		query = query.Where("reports.reported_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("reports.reported_at <= ?", *filter.DateTo)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var reports []model.Report
	if err := query.
		Order("reports.reported_at DESC").
		Preload("Photos").
		Find(&reports).Error; err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ReportRepository) GetByUUID(ctx context.Context, uuid string) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Preload("Photos").
		First(&report, "uuid = ?", uuid).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Create inserts the report and its photo rows in one transaction.
func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(report).Error
	})
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, uuid string, status model.ReportStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("uuid = ?", uuid).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HardDelete removes the report row; photo rows go with it via the
// ON DELETE CASCADE constraint.
func (r *ReportRepository) HardDelete(ctx context.Context, uuid string) error {
	result := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.Report{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReportRepository) CountReportedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("status = ?", model.ReportStatusActive).
		Where("reported_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *ReportRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("status = ?", model.ReportStatusActive).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// TypesReportedSince returns the type sets of active reports in the window.
// A report with N types contributes once to each of its N buckets, so the
// flattening happens in the service, not in SQL.
func (r *ReportRepository) TypesReportedSince(ctx context.Context, since time.Time) ([]model.ReportTypeList, error) {
	var rows []model.Report
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Select("types").
		Where("status = ?", model.ReportStatusActive).
		Where("reported_at >= ?", since).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.ReportTypeList, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Types)
	}
	return out, nil
}

func (r *ReportRepository) CountByCity(ctx context.Context, since time.Time, limit int) ([]model.CityCount, error) {
	var rows []model.CityCount
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Select("city, COUNT(*) AS count").
		Where("status = ?", model.ReportStatusActive).
		Where("reported_at >= ?", since).
		Where("city IS NOT NULL").
		Group("city").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) CountByVoivodeship(ctx context.Context, since time.Time) ([]model.VoivodeshipCount, error) {
	var rows []model.VoivodeshipCount
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Select("voivodeship, COUNT(*) AS count").
		Where("status = ?", model.ReportStatusActive).
		Where("reported_at >= ?", since).
		Where("voivodeship IS NOT NULL").
		Group("voivodeship").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
