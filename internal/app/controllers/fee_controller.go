package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/app/services"
	"github.com/nacosng/feeclearance/internal/middleware"
)

// FeeController handles the fee catalog: the student view and the admin CRUD
type FeeController struct {
	feeService *services.FeeService
	logger     zerolog.Logger
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService *services.FeeService, logger zerolog.Logger) *FeeController {
	return &FeeController{
		feeService: feeService,
		logger:     logger,
	}
}

func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "id must be a positive integer")))
		return 0, false
	}
	return id, true
}

// ListForStudent lists active fees with the student's payment status
// @Summary List payable fees
// @Tags fees
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.FeeWithStatus} "Active fees"
// @Router /fees [get]
func (c *FeeController) ListForStudent(ctx *gin.Context) {
	student, ok := middleware.GetStudentPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	fees, err := c.feeService.GetActiveWithStatus(ctx.Request.Context(), student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: fees})
}

// ListForAdmin lists the full fee catalog including inactive fees
// @Summary List all fees
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse "Fee catalog"
// @Router /admin/fees [get]
func (c *FeeController) ListForAdmin(ctx *gin.Context) {
	fees, err := c.feeService.GetAll(ctx.Request.Context(), true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: fees})
}

// Create adds a fee to the catalog
// @Summary Create a fee
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateFeeRequest true "Fee definition"
// @Success 201 {object} dto.APIResponse "Created fee"
// @Failure 400 {object} dto.ErrorResponse "Invalid fee"
// @Router /admin/fees [post]
func (c *FeeController) Create(ctx *gin.Context) {
	var req dto.CreateFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	fee, err := c.feeService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: fee})
}

// Update applies a partial update to a fee
// @Summary Update a fee
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Fee ID"
// @Param request body dto.UpdateFeeRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse "Updated fee"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /admin/fees/{id} [put]
func (c *FeeController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	fee, err := c.feeService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: fee})
}

// Delete removes a fee, deactivating instead when payments reference it
// @Summary Delete a fee
// @Tags admin
// @Produce json
// @Param id path int true "Fee ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteFeeResponse} "Deleted or deactivated"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /admin/fees/{id} [delete]
func (c *FeeController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	deactivated, err := c.feeService.Delete(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.DeleteFeeResponse{Message: "Fee deleted", Deactivated: deactivated}
	if deactivated {
		resp.Message = "Fee has existing payments and was deactivated instead of deleted"
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}
