package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestContext stamps request metadata used by the context logger and
// bounds the request with timeout
func RequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestID(c.Request.Context(), c.GetHeader(constants.HeaderXRequestID))
		ctx = ctxutil.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = ctxutil.NewContextWithRequest(ctx, c.Request, "http", c.FullPath())

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.HeaderXRequestID, ctxutil.GetRequestID(ctx))

		logger.DebugWithContext(ctx, "Request started").
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			String("query", c.Request.URL.RawQuery).
			Log()

		c.Next()

		logger.DebugWithContext(c.Request.Context(), "Request completed").
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			StatusCode(c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}
