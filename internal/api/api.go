package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// serverError logs the underlying fault and returns the generic message; no
// store-level error text crosses the boundary.
func serverError(c *gin.Context, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
