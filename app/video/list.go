package video

import (
	"net/http"
	"strconv"
	"videovault/library-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func VideoList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	videos, err := d.Store.AllVideos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list videos", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, videos)
}

// videoID parses the :id path param. Writes the error response itself
// and reports ok=false when the param is unusable.
func videoID(c *gin.Context, requestID string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid video ID",
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}
