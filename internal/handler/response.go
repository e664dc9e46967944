package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/Payphone-Digital/leadgen/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError renders a service error with its mapped status. Server-side
// failures are logged with their cause and shown with a generic message.
func respondError(c *gin.Context, ctx context.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	message := apperrors.GetErrorMessage(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, "Request failed").
			StatusCode(status).
			Err(err).
			Log()
		if status == http.StatusInternalServerError {
			message = constants.MsgInternalError
		}
	}

	c.JSON(status, constants.BuildErrorResponse(message, nil))
}

// respondBindError renders a binding failure as 400 with field messages when available
func respondBindError(c *gin.Context, ctx context.Context, err error) {
	logger.WarnWithContext(ctx, "Invalid request").
		Err(err).
		Log()

	if messages := validation.Messages(err); messages != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Validation failed", messages))
		return
	}
	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
}

// pathID parses the :id parameter, answering 400 itself on failure
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid id", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}
