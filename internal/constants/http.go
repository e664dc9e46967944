package constants

// HTTP Header Names
const (
	HeaderContentType    = "Content-Type"
	HeaderAuthorization  = "Authorization"
	HeaderUserAgent      = "User-Agent"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXTraceID       = "X-Trace-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
)

// HTTP Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// Cookie names
const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
	CookiePath         = "/"
)

// Gin context keys set by the auth middleware
const (
	GinKeyUserID = "user_id"
	GinKeyUser   = "user"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized       = "Not authenticated"
	MsgForbidden          = "Access forbidden"
	MsgNotFound           = "Resource not found"
	MsgBadRequest         = "Invalid request"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgNoRefreshToken     = "No refresh token provided"
	MsgLoggedOut          = "Logged out successfully"
)
