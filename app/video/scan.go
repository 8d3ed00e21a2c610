package video

import (
	"net/http"
	"os"
	"videovault/library-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type scanRequest struct {
	Path string `json:"path"`
}

// ScanDirectory walks a directory and catalogs every supported video
// file that isn't known yet. Runs synchronously, per-file failures are
// part of the returned summary.
func ScanDirectory(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var req scanRequest
	if err := c.BindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No directory path provided",
			"requestID": requestID,
		})
		return
	}

	fi, err := os.Stat(req.Path)
	if err != nil || !fi.IsDir() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Path does not exist or is not a directory",
			"requestID": requestID,
		})
		return
	}

	sum, err := d.Scanner.Scan(req.Path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Directory scan failed", zap.String("path", req.Path), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, sum)
}
