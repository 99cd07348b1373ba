package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/app/services"
	"github.com/nacosng/feeclearance/internal/middleware"
	"github.com/nacosng/feeclearance/internal/pkg/auth"
)

// StudentController handles the student-facing surface
type StudentController struct {
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

func requireStudent(ctx *gin.Context) (auth.StudentPrincipal, bool) {
	student, ok := middleware.GetStudentPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
	}
	return student, ok
}

// Dashboard returns the student landing page payload
// @Summary Student dashboard
// @Tags student
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StudentDashboardResponse} "Dashboard"
// @Router /student/dashboard [get]
func (c *StudentController) Dashboard(ctx *gin.Context) {
	student, ok := requireStudent(ctx)
	if !ok {
		return
	}

	dashboard, err := c.studentService.Dashboard(ctx.Request.Context(), student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dashboard})
}

// Payments lists the student's payment history
// @Summary Student payment history
// @Tags student
// @Produce json
// @Success 200 {object} dto.APIResponse "Payment attempts, newest first"
// @Router /student/payments [get]
func (c *StudentController) Payments(ctx *gin.Context) {
	student, ok := requireStudent(ctx)
	if !ok {
		return
	}

	payments, err := c.studentService.GetPayments(ctx.Request.Context(), student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: payments})
}

// Clearance returns the clearance certificate payload
// @Summary Clearance certificate
// @Tags student
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ClearanceResponse} "Clearance status and paid fees"
// @Router /student/clearance [get]
func (c *StudentController) Clearance(ctx *gin.Context) {
	student, ok := requireStudent(ctx)
	if !ok {
		return
	}

	clearance, err := c.studentService.GetClearance(ctx.Request.Context(), student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: clearance})
}

// Profile returns the student's own profile
// @Summary Get profile
// @Tags student
// @Produce json
// @Success 200 {object} dto.APIResponse "Profile"
// @Router /student/profile [get]
func (c *StudentController) Profile(ctx *gin.Context) {
	student, ok := requireStudent(ctx)
	if !ok {
		return
	}

	profile, err := c.studentService.GetProfile(ctx.Request.Context(), student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profile})
}

// UpdateProfile updates the mutable profile fields
// @Summary Update profile
// @Tags student
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse "Updated profile"
// @Router /student/profile [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	student, ok := requireStudent(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, err := c.studentService.UpdateProfile(ctx.Request.Context(), student.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profile})
}

// Notifications lists the student's notifications
// @Summary List notifications
// @Tags student
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} dto.APIResponse "Notifications with unread count"
// @Router /student/notifications [get]
func (c *StudentController) Notifications(ctx *gin.Context) {
	student, ok := requireStudent(ctx)
	if !ok {
		return
	}

	unreadOnly := ctx.Query("unread") == "true"
	notifications, unread, err := c.studentService.GetNotifications(ctx.Request.Context(), student.ID, unreadOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: gin.H{
		"notifications": notifications,
		"unreadCount":   unread,
	}})
}

// MarkNotificationRead marks one notification read
// @Summary Mark a notification read
// @Tags student
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Marked read"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /student/notifications/{id}/read [post]
func (c *StudentController) MarkNotificationRead(ctx *gin.Context) {
	student, ok := requireStudent(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.studentService.MarkNotificationRead(ctx.Request.Context(), student.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Notification marked read"}})
}

// MarkAllNotificationsRead marks every notification read
// @Summary Mark all notifications read
// @Tags student
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "All marked read"
// @Router /student/notifications/read-all [post]
func (c *StudentController) MarkAllNotificationsRead(ctx *gin.Context) {
	student, ok := requireStudent(ctx)
	if !ok {
		return
	}

	if err := c.studentService.MarkAllNotificationsRead(ctx.Request.Context(), student.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "All notifications marked read"}})
}
