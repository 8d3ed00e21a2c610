package video

import (
	"net/http"
	"os"
	"videovault/library-api/internal"
	"videovault/library-api/internal/model"

	"github.com/gin-gonic/gin"
)

// VideoStream serves the original file. Range requests are handled by
// the standard library's partial content implementation.
func VideoStream(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	v, ok := lookupVideo(c, d, requestID)
	if !ok {
		return
	}

	if _, err := os.Stat(v.FilePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video file is missing on disk",
			"requestID": requestID,
		})
		return
	}

	c.File(v.FilePath)
}

func VideoThumbnail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	v, ok := lookupVideo(c, d, requestID)
	if !ok {
		return
	}

	if v.ThumbnailPath == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video has no thumbnail",
			"requestID": requestID,
		})
		return
	}

	c.File(*v.ThumbnailPath)
}

func VideoPreview(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	v, ok := lookupVideo(c, d, requestID)
	if !ok {
		return
	}

	if v.PreviewPath == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video has no preview",
			"requestID": requestID,
		})
		return
	}

	c.File(*v.PreviewPath)
}

func lookupVideo(c *gin.Context, d *internal.Deps, requestID string) (*model.Video, bool) {
	id, ok := videoID(c, requestID)
	if !ok {
		return nil, false
	}

	v, found, err := d.Store.VideoByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})
		return nil, false
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video not found",
			"requestID": requestID,
		})
		return nil, false
	}

	return v, true
}
