package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vibemix-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError writes err with the status its error code maps to.
func RespondServiceError(c *gin.Context, err error) {
	apiErr := apierr.FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, ErrorEnvelope{
		Error: APIError{
			Message: apiErr.Message(),
			Code:    apiErr.Code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
