package video

import (
	"io"
	"net/http"
	"os"
	"videovault/library-api/internal"
	"videovault/library-api/internal/ingest"
	"videovault/library-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func VideoUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.FileValidator(fh)
	if err != nil {
		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	tags, err := validators.ParseStringList(c.PostForm("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	dest := ingest.UniquePath(viper.GetString("library.media_dir"), fh.Filename)

	out, err := os.Create(dest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create library file", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	_, err = io.Copy(out, f)
	out.Close()
	if err != nil {
		os.Remove(dest)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to copy upload to library", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	v, err := d.Ingestor.Do(dest, &ingest.Options{
		Tags:            tags,
		ChosenThumbnail: c.PostForm("thumbnail"),
	})
	if err != nil {
		os.Remove(dest)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to ingest uploaded video", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, v)
}
