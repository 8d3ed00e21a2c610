package video

import (
	"net/http"
	"videovault/library-api/internal"
	"videovault/library-api/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type videoEditOpts struct {
	Title         *string `json:"title,omitempty"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	PreviewPath   *string `json:"preview_path,omitempty"`
}

func VideoEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := videoID(c, requestID)
	if !ok {
		return
	}

	var data videoEditOpts
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	if data.Title == nil && data.ThumbnailPath == nil && data.PreviewPath == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No edit options provided",
			"requestID": requestID,
		})
		return
	}

	if data.Title != nil && *data.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Empty title",
			"requestID": requestID,
		})
		return
	}

	affected, err := d.Store.UpdateVideo(id, &catalog.VideoUpdate{
		Title:         data.Title,
		ThumbnailPath: data.ThumbnailPath,
		PreviewPath:   data.PreviewPath,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update video", zap.Error(err))
		return
	}

	if !affected {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video not found",
			"requestID": requestID,
		})
		return
	}

	v, _, err := d.Store.VideoByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch updated video", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, v)
}
