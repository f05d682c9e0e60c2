package utils

import (
	"errors"
	"os"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
	})
}

// RespondErrorCode attaches a stable machine-readable code to the error body.
func RespondErrorCode(c *gin.Context, code int, errCode string, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Code:    errCode,
	})
}

// RespondInternal logs the error and hides its message in production.
func RespondInternal(c *gin.Context, err error) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	if os.Getenv("APP_ENV") == "production" {
		RespondError(c, 500, errors.New("internal server error"))
		return
	}
	RespondError(c, 500, err)
}
