package handler

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/internal/dto"
	"github.com/Payphone-Digital/leadgen/internal/middleware"
	"github.com/Payphone-Digital/leadgen/internal/service"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CookieConfig controls the auth cookies
type CookieConfig struct {
	Secure     bool
	SameSite   http.SameSite
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ParseSameSite maps a config string to its cookie mode, defaulting to Lax
func ParseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict", "Strict":
		return http.SameSiteStrictMode
	case "none", "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type AuthHandler struct {
	sessions *service.SessionService
	cookies  CookieConfig
}

func NewAuthHandler(sessions *service.SessionService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		cookies:  cookies,
	}
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(name, value, maxAge, constants.CookiePath, h.cookies.Domain, h.cookies.Secure, true)
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, pair *dto.TokenResponse) {
	h.setCookie(c, constants.CookieAccessToken, pair.AccessToken, int(h.cookies.AccessTTL.Seconds()))
	h.setCookie(c, constants.CookieRefreshToken, pair.RefreshToken, int(h.cookies.RefreshTTL.Seconds()))
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	h.setCookie(c, constants.CookieAccessToken, "", -1)
	h.setCookie(c, constants.CookieRefreshToken, "", -1)
}

// refreshToken prefers the cookie and falls back to the JSON body
func refreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.CookieRefreshToken); err == nil && cookie != "" {
		return cookie
	}
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ctx, err)
		return
	}

	user, err := h.sessions.Register(ctx, &req)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	c.JSON(http.StatusCreated, service.ToUserResponse(user))
}

// Login issues a token pair in the body and as http-only cookies
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, ctx, err)
		return
	}

	pair, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Refresh")

	pair, err := h.sessions.Refresh(ctx, refreshToken(c))
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, pair)
}

// Logout revokes the presented refresh token and clears both cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	token := refreshToken(c)
	h.clearTokenCookies(c)

	if err := h.sessions.Logout(ctx, token); err != nil {
		respondError(c, ctx, err)
		return
	}

	logger.InfoWithContext(ctx, "User logged out").Log()
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLoggedOut))
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}
	c.JSON(http.StatusOK, service.ToUserResponse(user))
}
