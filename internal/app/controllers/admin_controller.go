package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/app/repositories"
	"github.com/nacosng/feeclearance/internal/app/services"
	"github.com/nacosng/feeclearance/internal/middleware"
	"github.com/nacosng/feeclearance/internal/pkg/helpers"
)

// AdminController handles the admin dashboard, reports, listings, export and
// portal settings
type AdminController struct {
	reportService   *services.ReportService
	settingsService *services.SettingsService
	logger          zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(reportService *services.ReportService, settingsService *services.SettingsService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		reportService:   reportService,
		settingsService: settingsService,
		logger:          logger,
	}
}

// Dashboard returns the admin landing page counters
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminDashboardResponse} "Dashboard"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.reportService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dashboard})
}

// Reports returns revenue and clearance breakdowns
// @Summary Admin reports
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ReportResponse} "Reports"
// @Router /admin/reports [get]
func (c *AdminController) Reports(ctx *gin.Context) {
	reports, err := c.reportService.Reports(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: reports})
}

// Students lists students with clearance status
// @Summary List students
// @Tags admin
// @Produce json
// @Param search query string false "Search over name, matric number, email"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Students"
// @Router /admin/students [get]
func (c *AdminController) Students(ctx *gin.Context) {
	page, size := helpers.ExtractPaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	students, total, err := c.reportService.GetStudents(ctx.Request.Context(), ctx.Query("search"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summaries := make([]dto.StudentSummary, 0, len(students))
	for _, s := range students {
		summaries = append(summaries, dto.StudentSummary{
			ID:              s.ID,
			FullName:        s.FullName,
			MatricNumber:    s.MatricNumber,
			Email:           s.Email,
			Department:      s.Department,
			Level:           s.Level,
			EmailVerified:   s.EmailVerified,
			ClearanceStatus: s.ClearanceStatus,
			CreatedAt:       s.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.PagedResponse{
		Items:      summaries,
		Pagination: helpers.NewPaginationInfo(page, size, total),
	}})
}

func paymentFilterFromQuery(ctx *gin.Context) repositories.PaymentFilter {
	filter := repositories.PaymentFilter{
		Status: ctx.Query("status"),
		Search: ctx.Query("search"),
	}
	if feeID, err := strconv.ParseInt(ctx.Query("feeId"), 10, 64); err == nil && feeID > 0 {
		filter.FeeID = feeID
	}
	return filter
}

// Payments lists payments with optional filters
// @Summary List payments
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status (pending, success, failed)"
// @Param feeId query int false "Filter by fee"
// @Param search query string false "Search over student name, matric number, reference"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Payments"
// @Router /admin/payments [get]
func (c *AdminController) Payments(ctx *gin.Context) {
	page, size := helpers.ExtractPaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	payments, total, err := c.reportService.GetPayments(ctx.Request.Context(), paymentFilterFromQuery(ctx), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.PagedResponse{
		Items:      payments,
		Pagination: helpers.NewPaginationInfo(page, size, total),
	}})
}

// ExportPayments streams the filtered payment history as a CSV download
// @Summary Export payments as CSV
// @Tags admin
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Param feeId query int false "Filter by fee"
// @Param search query string false "Search term"
// @Success 200 {string} string "CSV payload"
// @Router /admin/payments/export [get]
func (c *AdminController) ExportPayments(ctx *gin.Context) {
	filename := fmt.Sprintf("payments-%s.csv", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := c.reportService.ExportPaymentsCSV(ctx.Request.Context(), ctx.Writer, paymentFilterFromQuery(ctx)); err != nil {
		c.logger.Error().Err(err).Msg("Payment export failed")
		// Headers may already be out; nothing sensible left to send.
		return
	}
}

// Settings returns all portal settings
// @Summary Get portal settings
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse "Settings"
// @Router /admin/settings [get]
func (c *AdminController) Settings(ctx *gin.Context) {
	settings, err := c.settingsService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: settings})
}

// UpdateSettings upserts portal settings
// @Summary Update portal settings
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings to upsert"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Settings updated"
// @Router /admin/settings [put]
func (c *AdminController) UpdateSettings(ctx *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.settingsService.Update(ctx.Request.Context(), req.Settings); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Settings updated"}})
}
