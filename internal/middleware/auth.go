package middleware

import (
	"net/http"
	"strings"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/internal/service"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService *service.JWTService
	authz      *service.AuthorizationService
}

func NewAuthMiddleware(jwtService *service.JWTService, authz *service.AuthorizationService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		authz:      authz,
	}
}

// accessToken reads the bearer header, falling back to the access_token cookie
func accessToken(c *gin.Context) string {
	if header := c.GetHeader(constants.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(constants.CookieAccessToken); err == nil {
		return cookie
	}
	return ""
}

// authenticate resolves the caller and stores it on the gin and request contexts
func (m *AuthMiddleware) authenticate(c *gin.Context) (*model.User, error) {
	token := accessToken(c)
	if token == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	userID, err := m.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	user, err := m.authz.Resolve(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}

	c.Set(constants.GinKeyUserID, user.ID)
	c.Set(constants.GinKeyUser, user)
	c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), user.ID.String()))
	return user, nil
}

// RequireAuth rejects requests without a valid access token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.authenticate(c); err != nil {
			logger.GetLogger().Warn("Authentication rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))

			status := apperrors.ToHTTPStatus(err)
			if status == http.StatusNotFound {
				// a token for a deleted user is not a valid credential
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// treats the request as anonymous otherwise
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if accessToken(c) == "" {
			c.Next()
			return
		}
		if _, err := m.authenticate(c); err != nil {
			logger.GetLogger().Debug("Optional authentication ignored",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}
		c.Next()
	}
}

// RequirePermission must run after RequireAuth
func (m *AuthMiddleware) RequirePermission(module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
			return
		}

		if err := m.authz.Authorize(user, module, action); err != nil {
			logger.GetLogger().Warn("Permission denied",
				zap.String("user_id", user.ID.String()),
				zap.String("permission", model.PermissionCode(module, action)),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth or OptionalAuth
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(constants.GinKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok && user != nil
}
