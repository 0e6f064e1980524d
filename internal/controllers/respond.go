package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager-be/internal/middleware"
	"taskmanager-be/internal/models"
)

// respondBindError answers a request body that failed to bind. Validation
// failures list every failing field; anything else is a malformed body.
func respondBindError(c *gin.Context, err error) {
	if fields := models.ValidationErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"errors": fields,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Invalid request body",
	})
}

// respondInternalError logs err and hides it from the client
func respondInternalError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	_ = c.Error(err)
	logger.ErrorContext(c.Request.Context(), msg,
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}

// requireIdentity fetches the caller set by the auth middleware. It only
// fails if a route was mounted without that middleware.
func requireIdentity(c *gin.Context) (middleware.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Access denied: no token provided.",
		})
	}
	return identity, ok
}
