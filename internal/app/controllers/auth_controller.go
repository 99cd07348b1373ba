// Package controllers handles HTTP request handling
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

// AuthController handles registration, login and the email token flows
type AuthController struct {
	authService  *services.AuthService
	jwtService   *auth.JWTService
	secureCookie bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, jwtService *auth.JWTService, secureCookie bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		jwtService:   jwtService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(auth.SessionCookieName, token, c.jwtService.SessionMaxAge(), "/", "", c.secureCookie, true)
}

func (c *AuthController) clearSessionCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(auth.SessionCookieName, "", -1, "/", "", c.secureCookie, true)
}

// Register handles student registration
// @Summary Register a new student
// @Description Creates a student account with an uncleared clearance record and sends a verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Student registration information"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterResponse} "Registration successful, check email"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 409 {object} dto.ErrorResponse "Email or matric number already registered"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	_, emailSent, err := c.authService.Register(ctx.Request.Context(),
		req.FullName, req.MatricNumber, req.Email, req.Password, req.Department, req.Level)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Registration successful. Please check your email to verify your account."
	if !emailSent {
		message = "Registration successful, but the verification email could not be sent. Please request a new link."
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.RegisterResponse{Message: message}})
}

// Login handles student and admin login
// @Summary Log in
// @Description Authenticates a student (email or matric number) or an admin and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Email not verified"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Identifier, req.Password, req.AsAdmin)
	if err != nil {
		c.logger.Warn().Err(err).Bool("asAdmin", req.AsAdmin).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, result.Token)

	redirectTo := "/dashboard"
	if result.Principal.Role() == auth.RoleAdmin {
		redirectTo = "/admin"
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.LoginResponse{
		Message: "Login successful",
		User: dto.UserInfo{
			ID:           result.Principal.PrincipalID(),
			FullName:     result.FullName,
			Email:        result.Principal.PrincipalEmail(),
			MatricNumber: result.Matric,
			Role:         string(result.Principal.Role()),
		},
		RedirectTo: redirectTo,
	}})
}

// VerifyEmail consumes a verification token from the emailed link
// @Summary Verify email address
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Email verified"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/verify-email [get]
func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	token := ctx.Query("token")

	if _, err := c.authService.VerifyEmail(ctx.Request.Context(), token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{
		Message: "Email verified successfully. You can now log in.",
	}})
}

// ForgotPassword starts the password reset flow
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Reset email sent if the account exists"
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Same response whether or not the account exists.
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{
		Message: "If an account exists for that email, a reset link has been sent.",
	}})
}

// ResetPassword completes the password reset flow
// @Summary Reset password with a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{
		Message: "Password updated successfully. You can now log in.",
	}})
}

// Logout clears the session cookie
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.clearSessionCookie(ctx)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Logged out"}})
}

// Me returns the authenticated principal's identity
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserInfo} "Session identity"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.UserInfo{
		ID:    principal.PrincipalID(),
		Email: principal.PrincipalEmail(),
		Role:  string(principal.Role()),
	}})
}
