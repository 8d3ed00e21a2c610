package video

import (
	"net/http"
	"os"
	"videovault/library-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func VideoDelete(c *gin.Context, d *internal.Deps) {
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

		zap.L().Error("Failed to fetch video for deletion", zap.Error(err))
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video not found",
			"requestID": requestID,
		})
		return
	}

	deleted, err := d.Store.DeleteVideo(id)
	if err != nil || !deleted {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete video", zap.Error(err))
		return
	}

	// Derived artifacts go with the record. The source file stays,
	// removing it is the owner's call, not the catalog's
	if v.ThumbnailPath != nil {
		os.Remove(*v.ThumbnailPath)
	}
	if v.PreviewPath != nil {
		os.Remove(*v.PreviewPath)
	}
	d.Pipeline.CleanupSelection(v.Filename)

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
