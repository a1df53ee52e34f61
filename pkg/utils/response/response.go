package response

import (
	"net/http"

	"runbox/pkg/errors"
	"runbox/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CompileResult is the body of a successful compile response.
type CompileResult struct {
	Result string `json:"result"`
}

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Message string `json:"message"`
}

// Success sends the captured stdout of a finished submission.
func Success(c *gin.Context, stdout string) {
	c.JSON(http.StatusOK, CompileResult{Result: stdout})
}

// Error sends an error response.
// It extracts the error code, maps it to an HTTP status and prefixes the
// message with the failure class the client expects.
func Error(c *gin.Context, err error) {
	customErr := errors.GetError(err)

	logger.Error(c.Request.Context(), "request error",
		zap.Int("code", int(customErr.Code)),
		zap.String("message", customErr.Error()),
		zap.Any("details", customErr.Details),
	)

	c.JSON(customErr.Code.HTTPStatus(), ErrorBody{
		Message: messagePrefix(customErr.Code) + customErr.Error(),
	})
}

// BadRequest sends a 400 response for a malformed request body.
func BadRequest(c *gin.Context, message string) {
	Error(c, errors.BadRequest(message))
}

// messagePrefix discriminates the failure class in the human-readable message.
func messagePrefix(code errors.ErrorCode) string {
	switch code {
	case errors.InvalidParams:
		return "Bad request: "
	case errors.LanguageNotSupported:
		return "Invalid input: "
	case errors.NotFound:
		return "Not found: "
	default:
		return "Internal server error: "
	}
}

// AbortWithError aborts the request and sends error response
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
