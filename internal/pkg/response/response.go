// Package response renders the JSON envelope shared by every endpoint.
package response

import "github.com/gin-gonic/gin"

// Envelope is the body of every API response.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   *Problem `json:"error,omitempty"`
}

// Problem describes a failed request. Code is one of the apperr classes.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Fail writes p and aborts the chain, so middleware and handlers share it.
func Fail(c *gin.Context, status int, p Problem) {
	c.AbortWithStatusJSON(status, Envelope{Error: &p})
}
