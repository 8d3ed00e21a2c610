package root

import (
	"net/http"
	"videovault/library-api/internal"

	"github.com/gin-gonic/gin"
)

// Heartbeat reports liveness plus whether the media tools are usable, so
// a frontend can surface degraded-mode warnings before anyone uploads.
func Heartbeat(c *gin.Context, d *internal.Deps) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"media_tools": d.Pipeline.Probe.Available(),
	})
}
