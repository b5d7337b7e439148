package handlers

import (
	"github.com/gin-gonic/gin"
)

// Client-facing messages. Internal failures always use a generic text; the
// detail goes to the log.
const (
	msgUnauthorized       = "Unauthorized"
	msgInternalError      = "Internal server error"
	msgCredentialsMissing = "Username and password are required"
	msgInvalidCredentials = "Invalid credentials"
	msgLoggedIn           = "Logged in successfully"
	msgLoggedOut          = "Logged out successfully"
	msgContactThanks      = "Thank you for your message! We'll get back to you soon."
	msgContactInvalid     = "Please check your form data"
	msgContactFailed      = "Something went wrong. Please try again later."
	msgListFailed         = "Failed to retrieve contact submissions"
	msgTooManyRequests    = "Too many requests, please try again later."
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, body any, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err, "request_id", requestIDFrom(c)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.AbortWithStatusJSON(httpCode, body)
}
