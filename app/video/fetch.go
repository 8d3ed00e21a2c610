package video

import (
	"net/http"
	"videovault/library-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func VideoFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := videoID(c, requestID)
	if !ok {
		return
	}

	v, found, err := d.Store.VideoByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch video", zap.Error(err))
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, v)
}
