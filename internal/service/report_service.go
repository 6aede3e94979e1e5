package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"water-report-service/internal/geocode"
	"water-report-service/internal/model"
	"water-report-service/internal/repository"
	"water-report-service/internal/storage"
)

const (
	maxListLimit          = 1000
	maxDescriptionLength  = 2000
	maxTypesPerReport     = 3
	defaultMessageCreated = "Report created successfully"
)

type ReportStore interface {
	List(ctx context.Context, filter repository.ReportFilter) ([]model.Report, error)
	GetByUUID(ctx context.Context, uuid string) (*model.Report, error)
	Create(ctx context.Context, report *model.Report) error
	UpdateStatus(ctx context.Context, uuid string, status model.ReportStatus) error
	HardDelete(ctx context.Context, uuid string) error
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) geocode.Result
}

type PhotoSaver interface {
	Save(dataURI, mimeType string) (*storage.SavedPhoto, error)
	Remove(filename string) error
}

type ReportService struct {
	reports      ReportStore
	geocoder     Geocoder
	photos       PhotoSaver
	maxPhotos    int
	deleteWindow time.Duration
	now          func() time.Time
}

func NewReportService(
	reports ReportStore,
	geocoder Geocoder,
	photos PhotoSaver,
	maxPhotos int,
	deleteWindow time.Duration,
) *ReportService {
	return &ReportService{
		reports:      reports,
		geocoder:     geocoder,
		photos:       photos,
		maxPhotos:    maxPhotos,
		deleteWindow: deleteWindow,
		now:          time.Now,
	}
}

type PhotoInput struct {
	DataURI  string
	MimeType string
}

// RequestContext carries submitter forensics, stored but never exposed.
type RequestContext struct {
	IPAddress string
	UserAgent string
}

type CreateReportInput struct {
	Types        []string
	Description  string
	Latitude     float64
	Longitude    float64
	Address      string
	City         string
	Voivodeship  string
	ContactEmail string
	ReportedAt   time.Time
	Photos       []PhotoInput
}

type CreateReportResult struct {
	UUID        string `json:"uuid"`
	DeleteToken string `json:"deleteToken"`
	Message     string `json:"message"`
}

func (s *ReportService) Create(ctx context.Context, input CreateReportInput, reqCtx RequestContext) (*CreateReportResult, error) {
	types, err := validateCreateInput(input)
	if err != nil {
		return nil, err
	}

	if len(input.Photos) > s.maxPhotos {
		return nil, ErrTooManyPhotos
	}

	// Blobs are written before any database row. Earlier blobs are not
	// rolled back when a later photo fails validation; orphaned files are
	// the accepted residual risk.
	saved := make([]model.Photo, 0, len(input.Photos))
	for _, photo := range input.Photos {
		blob, err := s.photos.Save(photo.DataURI, photo.MimeType)
		if err != nil {
			var invalid *storage.InvalidPhotoError
			if errors.As(err, &invalid) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidPhoto, invalid.Reason)
			}
			return nil, err
		}
		saved = append(saved, model.Photo{
			URL:      blob.URL,
			Filename: blob.Filename,
			Size:     blob.Size,
			MimeType: photo.MimeType,
		})
	}

	address := optionalString(input.Address)
	city := optionalString(input.City)
	voivodeship := optionalString(input.Voivodeship)
	var postalCode *string

	if address == nil {
		// Geocoding unavailability must never fail creation; the gateway
		// degrades to a coordinate string on its own.
		result := s.geocoder.Reverse(ctx, input.Latitude, input.Longitude)
		address = &result.Address
		city = result.City
		voivodeship = result.Voivodeship
		postalCode = result.PostalCode
	}

	deleteToken := uuid.NewString()

	report := &model.Report{
		UUID:         uuid.NewString(),
		Types:        types,
		Description:  input.Description,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Address:      address,
		City:         city,
		Voivodeship:  voivodeship,
		PostalCode:   postalCode,
		ContactEmail: optionalString(input.ContactEmail),
		ReportedAt:   input.ReportedAt,
		Status:       model.ReportStatusActive,
		DeleteToken:  &deleteToken,
		IPAddress:    optionalString(reqCtx.IPAddress),
		UserAgent:    optionalString(reqCtx.UserAgent),
		Photos:       saved,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		for _, photo := range saved {
			_ = s.photos.Remove(photo.Filename)
		}
		return nil, err
	}

	// The only moment the delete token is ever revealed.
	return &CreateReportResult{
		UUID:        report.UUID,
		DeleteToken: deleteToken,
		Message:     defaultMessageCreated,
	}, nil
}

type ListReportsOptions struct {
	Types    []model.ReportType
	Statuses []model.ReportStatus
	Bounds   *repository.Bounds
	City     string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

type PublicReportList struct {
	Reports []model.PublicReport `json:"reports"`
	Total   int                  `json:"total"`
}

func (s *ReportService) List(ctx context.Context, opts ListReportsOptions) (*PublicReportList, error) {
	filter := repository.ReportFilter{
		Statuses: []model.ReportStatus{model.ReportStatusActive},
		Types:    opts.Types,
		Bounds:   opts.Bounds,
		City:     opts.City,
		DateFrom: opts.DateFrom,
		DateTo:   opts.DateTo,
		Limit:    clampLimit(opts.Limit),
		Offset:   opts.Offset,
	}

	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]model.PublicReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, model.NewPublicReport(r))
	}
	return &PublicReportList{Reports: out, Total: len(out)}, nil
}

type AdminReportList struct {
	Reports []model.AdminReport `json:"reports"`
	Total   int                 `json:"total"`
}

func (s *ReportService) ListAdmin(ctx context.Context, principal model.Principal, opts ListReportsOptions) (*AdminReportList, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	filter := repository.ReportFilter{
		Statuses: opts.Statuses,
		Types:    opts.Types,
		Bounds:   opts.Bounds,
		City:     opts.City,
		DateFrom: opts.DateFrom,
		DateTo:   opts.DateTo,
		Limit:    clampLimit(opts.Limit),
		Offset:   opts.Offset,
	}

	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]model.AdminReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, model.NewAdminReport(r))
	}
	return &AdminReportList{Reports: out, Total: len(out)}, nil
}

func (s *ReportService) Get(ctx context.Context, uuid string) (*model.PublicReport, error) {
	report, err := s.getByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if report.Status != model.ReportStatusActive {
		return nil, ErrReportNotFound
	}
	public := model.NewPublicReport(*report)
	return &public, nil
}

func (s *ReportService) GetAdmin(ctx context.Context, principal model.Principal, uuid string) (*model.AdminReport, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	report, err := s.getByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	admin := model.NewAdminReport(*report)
	return &admin, nil
}

// SelfDelete soft-deletes a report when the caller presents the delete
// token within the deletion window. Re-deleting an already deleted report
// with a valid token is a harmless no-op.
func (s *ReportService) SelfDelete(ctx context.Context, uuid, deleteToken string) error {
	report, err := s.getByUUID(ctx, uuid)
	if err != nil {
		return err
	}

	if report.DeleteToken == nil || *report.DeleteToken != deleteToken {
		return ErrInvalidDeleteToken
	}

	// The window is anchored on record creation, not on reported_at.
	if s.now().Sub(report.CreatedAt) > s.deleteWindow {
		return ErrDeletePeriodExpired
	}

	return s.reports.UpdateStatus(ctx, uuid, model.ReportStatusDeleted)
}

func (s *ReportService) UpdateStatus(ctx context.Context, principal model.Principal, uuid string, status model.ReportStatus) (*model.AdminReport, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	if err := s.reports.UpdateStatus(ctx, uuid, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	return s.GetAdmin(ctx, principal, uuid)
}

func (s *ReportService) HardDelete(ctx context.Context, principal model.Principal, uuid string) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}

	report, err := s.getByUUID(ctx, uuid)
	if err != nil {
		return err
	}

	if err := s.reports.HardDelete(ctx, uuid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	// Blob cleanup is best effort; the row removal already succeeded.
	for _, photo := range report.Photos {
		_ = s.photos.Remove(photo.Filename)
	}
	return nil
}

func (s *ReportService) getByUUID(ctx context.Context, uuid string) (*model.Report, error) {
	report, err := s.reports.GetByUUID(ctx, uuid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// ValidateTypes parses and checks a submitted type list, including the
// rule that no_water cannot be combined with other types.
func ValidateTypes(raw []string) (model.ReportTypeList, error) {
	verr := &ValidationError{}
	if len(raw) == 0 {
		verr.add("types", "at least one type is required")
		return nil, verr
	}
	if len(raw) > maxTypesPerReport {
		verr.add("types", "maximum 3 types allowed")
		return nil, verr
	}

	types := make(model.ReportTypeList, 0, len(raw))
	for _, value := range raw {
		t, err := model.ParseReportType(value)
		if err != nil {
			verr.add("types", err.Error())
			return nil, verr
		}
		types = append(types, t)
	}

	if len(types) > 1 {
		for _, t := range types {
			if t == model.ReportTypeNoWater {
				verr.add("types", "no_water cannot be combined with other types")
				return nil, verr
			}
		}
	}

	return types, nil
}

func validateCreateInput(input CreateReportInput) (model.ReportTypeList, error) {
	types, err := ValidateTypes(input.Types)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if input.Latitude < -90 || input.Latitude > 90 {
		verr.add("latitude", "must be between -90 and 90")
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		verr.add("longitude", "must be between -180 and 180")
	}
	if len(input.Description) > maxDescriptionLength {
		verr.add("description", "must be at most 2000 characters")
	}
	if input.ReportedAt.IsZero() {
		verr.add("reportedAt", "is required")
	}
	if input.ContactEmail != "" {
		if _, err := mail.ParseAddress(input.ContactEmail); err != nil {
			verr.add("contactEmail", "must be a valid email address")
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return types, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
