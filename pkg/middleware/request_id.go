// Package middleware contains any custom middleware used in the app
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewRequestIDMiddleware tags every request with an ID that error bodies
// and log lines both carry, so the two can be correlated.
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("requestID", uuid.NewString())
		c.Next()
	}
}
