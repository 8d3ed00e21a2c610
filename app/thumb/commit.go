package thumb

import (
	"net/http"
	"videovault/library-api/internal"
	"videovault/library-api/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type commitOpts struct {
	VideoID  uint   `json:"video_id"`
	Filename string `json:"filename"`
}

// SelectionCommit promotes a chosen candidate to the video's canonical
// thumbnail. Every selection candidate of that video is removed
// afterwards, the committed copy is the artifact of record.
func SelectionCommit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data commitOpts
	if err := c.BindJSON(&data); err != nil || data.VideoID == 0 || data.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "video_id and filename are required",
			"requestID": requestID,
		})
		return
	}

	if !selectionNameOK(data.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid selection name",
			"requestID": requestID,
		})
		return
	}

	v, found, err := d.Store.VideoByID(data.VideoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch video for thumbnail commit", zap.Error(err))
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video not found",
			"requestID": requestID,
		})
		return
	}

	committed, err := d.Pipeline.CommitThumbnail(data.Filename, v.Filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Selection candidate not found",
			"requestID": requestID,
		})
		return
	}

	if _, err := d.Store.UpdateVideo(v.ID, &catalog.VideoUpdate{ThumbnailPath: &committed}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to persist committed thumbnail", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"thumbnail_path": committed})
}
