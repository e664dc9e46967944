package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/Payphone-Digital/leadgen/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ValidationMiddleware struct {
	validate *validator.Validate
}

// NewValidationMiddleware reads the same binding tags gin uses
func NewValidationMiddleware() *ValidationMiddleware {
	validate := validator.New()
	validate.SetTagName("binding")
	return &ValidationMiddleware{validate: validate}
}

// ValidateRequestBody rejects a JSON body that does not satisfy the struct
// built by factory. The body is restored for the handler.
func (m *ValidationMiddleware) ValidateRequestBody(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(c.Request.Body)
			if err != nil {
				logger.GetLogger().Error("Middleware: Failed to read request body",
					zap.String("client_ip", c.ClientIP()),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				c.AbortWithStatusJSON(http.StatusBadRequest,
					constants.BuildErrorResponse("Failed to read request body", nil))
				return
			}
		}

		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		request := factory()
		if err := json.Unmarshal(bodyBytes, request); err != nil {
			logger.GetLogger().Debug("Middleware: JSON unmarshaling failed",
				zap.String("path", c.Request.URL.Path),
				zap.Int("body_size", len(bodyBytes)),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusBadRequest,
				constants.BuildErrorResponse("Invalid JSON body", err.Error()))
			return
		}

		if err := m.validate.Struct(request); err != nil {
			messages := validation.Messages(err)
			logger.GetLogger().Debug("Middleware: Request validation failed",
				zap.String("path", c.Request.URL.Path),
				zap.Strings("validation_errors", messages),
			)
			c.AbortWithStatusJSON(http.StatusBadRequest,
				constants.BuildErrorResponse("Validation failed", messages))
			return
		}

		c.Next()
	}
}
