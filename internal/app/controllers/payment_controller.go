package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/app/services"
	"github.com/nacosng/feeclearance/internal/middleware"
)

// paystackSignatureHeader carries the HMAC of the webhook body
const paystackSignatureHeader = "x-paystack-signature"

// PaymentController handles payment initialization, the gateway callback and
// webhook deliveries
type PaymentController struct {
	paymentService *services.PaymentService
	logger         zerolog.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService *services.PaymentService, logger zerolog.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Initialize starts a payment for a fee
// @Summary Initialize a fee payment
// @Description Creates a pending payment and returns the Paystack checkout URL
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.InitializePaymentRequest true "Fee to pay"
// @Success 200 {object} dto.APIResponse{data=dto.InitializePaymentResponse} "Checkout session created"
// @Failure 400 {object} dto.ErrorResponse "Fee not available"
// @Failure 409 {object} dto.ErrorResponse "Fee already paid"
// @Failure 502 {object} dto.ErrorResponse "Payment provider unavailable"
// @Router /payments/initialize [post]
func (c *PaymentController) Initialize(ctx *gin.Context) {
	student, ok := middleware.GetStudentPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	var req dto.InitializePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.paymentService.Initialize(ctx.Request.Context(), student.ID, req.FeeID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("studentId", student.ID).Int64("feeId", req.FeeID).Msg("Payment initialization failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result})
}

// Verify settles a payment after the gateway redirects the student back
// @Summary Verify a payment after checkout
// @Description Re-verifies the transaction with Paystack and returns the settled payment
// @Tags payments
// @Produce json
// @Param reference query string true "Payment reference"
// @Success 200 {object} dto.APIResponse "Settled payment"
// @Failure 404 {object} dto.ErrorResponse "Unknown reference"
// @Failure 502 {object} dto.ErrorResponse "Payment provider unavailable"
// @Router /payments/verify [get]
func (c *PaymentController) Verify(ctx *gin.Context) {
	student, ok := middleware.GetStudentPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	reference := ctx.Query("reference")
	if reference == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "reference is required")))
		return
	}

	// Ownership check before settling; students can only verify their own
	// payments.
	if _, err := c.paymentService.GetByReference(ctx.Request.Context(), reference, student.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	payment, err := c.paymentService.Confirm(ctx.Request.Context(), reference)
	if err != nil {
		c.logger.Error().Err(err).Str("reference", reference).Msg("Payment verification failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: payment})
}

// Webhook receives Paystack event deliveries. Authentication is the HMAC
// signature over the raw body, not a session.
// @Summary Paystack webhook receiver
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Event processed"
// @Failure 401 {object} dto.ErrorResponse "Invalid signature"
// @Router /webhooks/paystack [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unable to read request body")))
		return
	}

	signature := ctx.GetHeader(paystackSignatureHeader)
	if err := c.paymentService.HandleWebhook(ctx.Request.Context(), body, signature); err != nil {
		c.logger.Warn().Err(err).Msg("Webhook rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "OK"}})
}
