package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfoliohub/pkg/apperrors"
)

// respondSuccess writes the standard success envelope.
func respondSuccess(c *gin.Context, status int, message string, result any) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	if result != nil {
		body["result"] = result
	}
	c.JSON(status, body)
}

// respondError maps an application error onto the failure envelope. Storage
// and internal failures are reported generically so backend details never
// leak to clients.
func respondError(c *gin.Context, err error) {
	var ae *apperrors.AppError
	if !errors.As(err, &ae) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "failure",
			"message": "internal server error",
		})
		return
	}

	body := gin.H{
		"status":  "failure",
		"message": ae.Message,
	}
	if len(ae.Violations) > 0 {
		body["error"] = ae.Violations
	}
	c.JSON(httpStatusFor(ae.Code), body)
}

func httpStatusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalid:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeConflict:
		return http.StatusConflict
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
