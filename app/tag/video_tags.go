package tag

import (
	"net/http"
	"strconv"
	"videovault/library-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type attachOpts struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// VideoTagAdd attaches a tag to a video by name, creating the tag when
// it doesn't exist yet. Attaching an already linked tag is a no-op.
func VideoTagAdd(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	videoID, ok := param(c, "id", "Invalid video ID", requestID)
	if !ok {
		return
	}

	var data attachOpts
	if err := c.BindJSON(&data); err != nil || data.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Tag name is required",
			"requestID": requestID,
		})
		return
	}

	_, found, err := d.Store.VideoByID(videoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch video for tagging", zap.Error(err))
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Video not found",
			"requestID": requestID,
		})
		return
	}

	t, err := d.Store.FindOrCreateTag(data.Name, data.Color)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve tag", zap.Error(err))
		return
	}

	created, err := d.Store.AddTagToVideo(videoID, t.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to link tag to video", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tag":    t,
		"linked": created,
	})
}

// VideoTagRemove detaches a tag from a video. A pair that was never
// linked is a 404, so the client can tell the difference.
func VideoTagRemove(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	videoID, ok := param(c, "id", "Invalid video ID", requestID)
	if !ok {
		return
	}

	tagID, ok := param(c, "tagID", "Invalid tag ID", requestID)
	if !ok {
		return
	}

	removed, err := d.Store.RemoveTagFromVideo(videoID, tagID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to unlink tag from video", zap.Error(err))
		return
	}

	if !removed {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Tag is not linked to this video",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": tagID})
}

func param(c *gin.Context, name, msg, requestID string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     msg,
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}
