package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"water-report-service/internal/db"
	"water-report-service/internal/geocode"
	"water-report-service/internal/model"
	"water-report-service/internal/repository"
	"water-report-service/internal/service"
)

type GeocodeGateway interface {
	Reverse(ctx context.Context, lat, lon float64) geocode.Result
	Search(ctx context.Context, query string) []geocode.SearchResult
}

type Handler struct {
	reportService *service.ReportService
	statsService  *service.StatsService
	authService   *service.AuthService
	geocoder      GeocodeGateway
	database      *gorm.DB
	env           string
	log           zerolog.Logger
}

func NewHandler(
	reportService *service.ReportService,
	statsService *service.StatsService,
	authService *service.AuthService,
	geocoder GeocodeGateway,
	database *gorm.DB,
	env string,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		reportService: reportService,
		statsService:  statsService,
		authService:   authService,
		geocoder:      geocoder,
		database:      database,
		env:           env,
		log:           log,
	}
}

type photoPayload struct {
	Base64   string `json:"base64" binding:"required"`
	MimeType string `json:"mimeType" binding:"required"`
}

type createReportRequest struct {
	Types        []string       `json:"types" binding:"required"`
	Description  string         `json:"description"`
	Latitude     *float64       `json:"latitude" binding:"required"`
	Longitude    *float64       `json:"longitude" binding:"required"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	Voivodeship  string         `json:"voivodeship"`
	ContactEmail string         `json:"contactEmail"`
	ReportedAt   string         `json:"reportedAt" binding:"required"`
	Photos       []photoPayload `json:"photos"`
}

func (h *Handler) createReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	reportedAt, err := time.Parse(time.RFC3339, req.ReportedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("reportedAt must be an ISO-8601 timestamp"))
		return
	}

	photos := make([]service.PhotoInput, 0, len(req.Photos))
	for _, p := range req.Photos {
		photos = append(photos, service.PhotoInput{DataURI: p.Base64, MimeType: p.MimeType})
	}

	input := service.CreateReportInput{
		Types:        req.Types,
		Description:  req.Description,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Address:      strings.TrimSpace(req.Address),
		City:         strings.TrimSpace(req.City),
		Voivodeship:  strings.TrimSpace(req.Voivodeship),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ReportedAt:   reportedAt,
		Photos:       photos,
	}
	reqCtx := service.RequestContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.reportService.Create(c.Request.Context(), input, reqCtx)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) listReports(c *gin.Context) {
	opts, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.reportService.List(c.Request.Context(), opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) getReport(c *gin.Context) {
	report, err := h.reportService.Get(c.Request.Context(), strings.TrimSpace(c.Param("uuid")))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) deleteReport(c *gin.Context) {
	token := strings.TrimSpace(c.GetHeader("X-Delete-Token"))
	if token == "" {
		token = strings.TrimSpace(c.Query("token"))
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, errorResponse("delete token required in X-Delete-Token header or token query parameter"))
		return
	}

	if err := h.reportService.SelfDelete(c.Request.Context(), strings.TrimSpace(c.Param("uuid")), token); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) getStats(c *gin.Context) {
	period, err := service.ParsePeriod(strings.TrimSpace(c.Query("period")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	stats, err := h.statsService.GetStats(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) searchGeocode(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, errorResponse("query parameter \"q\" must be at least 2 characters"))
		return
	}

	results := h.geocoder.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) reverseGeocode(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(c.Query("lon")), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, errorResponse("valid \"lat\" and \"lon\" parameters are required"))
		return
	}
	if lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, errorResponse("latitude must be between -90 and 90"))
		return
	}
	if lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, errorResponse("longitude must be between -180 and 180"))
		return
	}

	c.JSON(http.StatusOK, h.geocoder.Reverse(c.Request.Context(), lat, lon))
}

func (h *Handler) health(c *gin.Context) {
	if err := db.HealthCheck(c.Request.Context(), h.database); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrReportNotFound), errors.Is(err, service.ErrAdminNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidDeleteToken), errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrDeletePeriodExpired):
		c.JSON(http.StatusGone, errorResponse(err.Error()))
	case errors.Is(err, service.ErrTooManyPhotos),
		errors.Is(err, service.ErrInvalidPhoto),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidOldPassword):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusUnauthorized, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		if h.env == "development" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func parseListQuery(c *gin.Context) (service.ListReportsOptions, error) {
	var opts service.ListReportsOptions

	if typesParam := c.Query("types"); typesParam != "" {
		for _, val := range splitCSV(typesParam) {
			t, err := model.ParseReportType(val)
			if err != nil {
				return opts, err
			}
			opts.Types = append(opts.Types, t)
		}
	}

	opts.City = strings.TrimSpace(c.Query("city"))

	bounds, err := parseBounds(c)
	if err != nil {
		return opts, err
	}
	opts.Bounds = bounds

	if startDate := strings.TrimSpace(c.Query("startDate")); startDate != "" {
		ts, err := time.Parse(time.RFC3339, startDate)
		if err != nil {
			return opts, err
		}
		opts.DateFrom = &ts
	}
	if endDate := strings.TrimSpace(c.Query("endDate")); endDate != "" {
		ts, err := time.Parse(time.RFC3339, endDate)
		if err != nil {
			return opts, err
		}
		opts.DateTo = &ts
	}
	if limit := strings.TrimSpace(c.Query("limit")); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			opts.Limit = v
		}
	}
	if offset := strings.TrimSpace(c.Query("offset")); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil {
			opts.Offset = v
		}
	}

	return opts, nil
}

// parseBounds reads north/south/east/west; the box applies only when all
// four sides are present.
func parseBounds(c *gin.Context) (*repository.Bounds, error) {
	raw := map[string]string{
		"north": strings.TrimSpace(c.Query("north")),
		"south": strings.TrimSpace(c.Query("south")),
		"east":  strings.TrimSpace(c.Query("east")),
		"west":  strings.TrimSpace(c.Query("west")),
	}

	present := 0
	for _, v := range raw {
		if v != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(raw) {
		return nil, errors.New("bounding box requires north, south, east and west")
	}

	values := make(map[string]float64, len(raw))
	for key, v := range raw {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New("bounding box values must be numbers")
		}
		values[key] = parsed
	}

	return &repository.Bounds{
		North: values["north"],
		South: values["south"],
		East:  values["east"],
		West:  values["west"],
	}, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
