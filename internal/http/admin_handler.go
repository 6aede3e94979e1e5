package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"water-report-service/internal/http/middleware"
	"water-report-service/internal/model"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) currentAdmin(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("not authenticated"))
		return
	}

	profile, err := h.authService.GetAdminByID(c.Request.Context(), principal.AdminID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *Handler) changePassword(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("not authenticated"))
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), principal.AdminID, req.OldPassword, req.NewPassword); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password changed successfully"})
}

func (h *Handler) adminListReports(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("not authenticated"))
		return
	}

	opts, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	// Admin listing has no implicit status restriction.
	if statusParam := strings.TrimSpace(c.Query("status")); statusParam != "" {
		status, err := model.ParseReportStatus(statusParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		opts.Statuses = []model.ReportStatus{status}
	}

	result, err := h.reportService.ListAdmin(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) adminGetReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("not authenticated"))
		return
	}

	report, err := h.reportService.GetAdmin(c.Request.Context(), principal, strings.TrimSpace(c.Param("uuid")))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) adminUpdateReportStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("not authenticated"))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status, err := model.ParseReportStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), principal, strings.TrimSpace(c.Param("uuid")), status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) adminDeleteReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("not authenticated"))
		return
	}

	if err := h.reportService.HardDelete(c.Request.Context(), principal, strings.TrimSpace(c.Param("uuid"))); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report permanently deleted"})
}
