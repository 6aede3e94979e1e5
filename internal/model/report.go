package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

type ReportStatus string

const (
	ReportStatusActive  ReportStatus = "active"
	ReportStatusDeleted ReportStatus = "deleted"
	ReportStatusSpam    ReportStatus = "spam"
)

func ParseReportStatus(raw string) (ReportStatus, error) {
	switch ReportStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportStatusActive:
		return ReportStatusActive, nil
	case ReportStatusDeleted:
		return ReportStatusDeleted, nil
	case ReportStatusSpam:
		return ReportStatusSpam, nil
	default:
		return "", fmt.Errorf("unknown report status %q", raw)
	}
}

type ReportType string

const (
	ReportTypeBrownWater ReportType = "brown_water"
	ReportTypeBadSmell   ReportType = "bad_smell"
	ReportTypeSediment   ReportType = "sediment"
	ReportTypePressure   ReportType = "pressure"
	ReportTypeNoWater    ReportType = "no_water"
	ReportTypeOther      ReportType = "other"
)

func ParseReportType(raw string) (ReportType, error) {
	switch ReportType(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportTypeBrownWater:
		return ReportTypeBrownWater, nil
	case ReportTypeBadSmell:
		return ReportTypeBadSmell, nil
	case ReportTypeSediment:
		return ReportTypeSediment, nil
	case ReportTypePressure:
		return ReportTypePressure, nil
	case ReportTypeNoWater:
		return ReportTypeNoWater, nil
	case ReportTypeOther:
		return ReportTypeOther, nil
	default:
		return "", fmt.Errorf("unknown report type %q", raw)
	}
}

// ReportTypeList maps a set of report types onto a Postgres text[] column.
type ReportTypeList []ReportType

func (l ReportTypeList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(l))
	for _, t := range l {
		parts = append(parts, string(t))
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (l *ReportTypeList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into ReportTypeList", src)
	}

	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	if raw == "" {
		*l = ReportTypeList{}
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make(ReportTypeList, 0, len(parts))
	for _, part := range parts {
		out = append(out, ReportType(strings.Trim(part, `"`)))
	}
	*l = out
	return nil
}

func (l ReportTypeList) GormDataType() string {
	return "text[]"
}

type Report struct {
	ID           uint           `gorm:"primaryKey"`
	UUID         string         `gorm:"type:uuid;uniqueIndex;not null;default:uuid_generate_v4()"`
	Types        ReportTypeList `gorm:"type:text[];not null"`
	Description  string         `gorm:"type:text"`
	Latitude     float64        `gorm:"not null"`
	Longitude    float64        `gorm:"not null"`
	Address      *string        `gorm:"type:text"`
	City         *string        `gorm:"type:text"`
	Voivodeship  *string        `gorm:"type:text"`
	PostalCode   *string        `gorm:"type:text"`
	ContactEmail *string        `gorm:"type:text"`
	ReportedAt   time.Time      `gorm:"not null"`
	Status       ReportStatus   `gorm:"type:report_status;not null;default:'active'"`
	DeleteToken  *string        `gorm:"type:uuid"`
	IPAddress    *string        `gorm:"column:ip_address;type:text"`
	UserAgent    *string        `gorm:"type:text"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`

	Photos []Photo `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

func (Report) TableName() string {
	return "reports"
}

type Photo struct {
	ID        uint      `gorm:"primaryKey"`
	ReportID  uint      `gorm:"not null;index"`
	URL       string    `gorm:"type:text;not null"`
	Filename  string    `gorm:"type:text;not null"`
	Size      int64     `gorm:"not null"`
	MimeType  string    `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Photo) TableName() string {
	return "report_photos"
}
