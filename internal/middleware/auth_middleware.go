package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nacosng/feeclearance/internal/app/models/dto"
	"github.com/nacosng/feeclearance/internal/pkg/auth"
)

// principalKey is the context key the session principal is stored under
const principalKey = "principal"

// AuthMiddleware authenticates requests and enforces role access
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// RequireSession validates the session and stores the principal in the
// request context. The session cookie is the primary carrier; a bearer
// token works as a fallback for non-browser clients.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(auth.SessionCookieName)
		if err != nil || tokenString == "" {
			tokenString, _ = auth.ExtractBearerToken(c.GetHeader("Authorization"))
		}

		if tokenString == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Session expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid session")
			return
		}

		principal, err := auth.PrincipalFromClaims(claims)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid session")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireStudent allows only student sessions with a verified email
func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		student, ok := principal.(auth.StudentPrincipal)
		if !ok {
			abortForbidden(c, "Student access required")
			return
		}
		if !student.EmailVerified {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeEmailNotVerified, "Email not verified")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// RequireAdmin allows only admin sessions
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		if _, ok := principal.(auth.AdminPrincipal); !ok {
			abortForbidden(c, "Admin access required")
			return
		}

		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the request context
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}

// GetStudentPrincipal retrieves the principal as a student
func GetStudentPrincipal(c *gin.Context) (auth.StudentPrincipal, bool) {
	principal, ok := GetPrincipal(c)
	if !ok {
		return auth.StudentPrincipal{}, false
	}
	student, ok := principal.(auth.StudentPrincipal)
	return student, ok
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden, message)))
}
