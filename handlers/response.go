package handlers

import (
	"circounter/core"

	"github.com/gin-gonic/gin"
)

// Response is the envelope returned by every API endpoint
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c *gin.Context, status int, code, message string, data any) {
	c.JSON(status, Response{Code: code, Message: message, Data: data})
}

func ok(c *gin.Context, status int, data any) {
	respond(c, status, core.CodeOK, "OK", data)
}

func fail(c *gin.Context, status int, code, message string, detail any) {
	// Keep the envelope stable: put free-form details into `data.detail`.
	payload := gin.H{}
	if detail != nil {
		payload["detail"] = detail
	}
	respond(c, status, code, message, payload)
}

// failErr maps a service error onto the envelope
func failErr(c *gin.Context, err error) {
	apiErr := core.Classify(err)
	detail := err.Error()
	fail(c, apiErr.Status, apiErr.Code, apiErr.Message, detail)
}
