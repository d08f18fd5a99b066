package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/auth/credentials"
	"skill-auth-service/internal/auth/flow"
	"skill-auth-service/internal/auth/provider"
	"skill-auth-service/internal/logger"
)

// statusFor maps a flow error to its HTTP status and public message.
func statusFor(flowName string, err error) (int, string) {
	switch {
	case errors.Is(err, credentials.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 bytes"
	case errors.Is(err, provider.ErrUnknownProvider):
		return http.StatusBadRequest, "Unknown identity provider"
	case errors.Is(err, auth.ErrValidation):
		if flowName == flow.FlowPassword {
			return http.StatusBadRequest, "Email and password are required"
		}
		if flowName == flow.FlowFederated {
			return http.StatusBadRequest, "Token is required"
		}
		return http.StatusBadRequest, "All fields are required"
	case errors.Is(err, auth.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already exists"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, auth.ErrEmailNotVerified):
		return http.StatusBadRequest, "Email not verified"
	case errors.Is(err, auth.ErrInvalidAssertion):
		return http.StatusInternalServerError, "Authentication error"
	case errors.Is(err, auth.ErrStore):
		if flowName == flow.FlowLogout {
			return http.StatusInternalServerError, "Could not log out"
		}
		return http.StatusInternalServerError, "Database error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeError logs err with its flow and answers with the public message
// only.
func writeError(c *gin.Context, flowName string, err error) {
	status, msg := statusFor(flowName, err)

	fields := map[string]any{
		"flow":   flowName,
		"status": status,
		"reason": flow.Reason(err),
		"path":   c.FullPath(),
		"ip":     c.ClientIP(),
		"error":  err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields)
	} else {
		logger.Warn("request rejected", fields)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
