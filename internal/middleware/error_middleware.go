package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers hand
// every service error here so status codes and error codes stay uniform.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		respond(c, http.StatusForbidden, dto.ErrorCodeEmailNotVerified, "Please verify your email before logging in")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrVerificationTokenInvalid):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Verification link is invalid or has expired")
	case errors.Is(err, apperrors.ErrPasswordResetTokenInvalid):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Reset link is invalid or has expired")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "An account with this email already exists")
	case errors.Is(err, apperrors.ErrMatricAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "An account with this matric number already exists")
	case errors.Is(err, apperrors.ErrFeeAlreadyPaid):
		respond(c, http.StatusConflict, dto.ErrorCodeAlreadyPaid, "This fee has already been paid")
	case errors.Is(err, apperrors.ErrFeeInactive):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "This fee is not available for payment")
	case errors.Is(err, apperrors.ErrInvalidSignature):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidSignature, "Invalid webhook signature")
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrFeeNotFound),
		errors.Is(err, apperrors.ErrPaymentNotFound),
		errors.Is(err, apperrors.ErrNotificationNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, friendlyMessage(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, friendlyMessage(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrUpstreamFailure):
		respond(c, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Payment provider is unavailable, please try again")
	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// friendlyMessage surfaces the wrapped CustomError message when one exists
func friendlyMessage(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
