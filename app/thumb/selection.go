// Package thumb exposes the interactive thumbnail selection flow.
package thumb

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"videovault/library-api/internal"
	"videovault/library-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCandidates = 6

// SelectionGenerate produces candidate frames for the "pick your
// thumbnail" flow. Works for an already cataloged video (video_id form
// field) or for a file uploaded ahead of its commit (file form field).
// Without the probing tool the candidate list is empty and the client
// proceeds with the default thumbnail.
func SelectionGenerate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	count := defaultCandidates
	if raw := c.PostForm("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 12 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid count provided",
				"requestID": requestID,
			})
			return
		}
		count = n
	}

	if rawID := c.PostForm("video_id"); rawID != "" {
		id, err := strconv.ParseUint(rawID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid video ID",
				"requestID": requestID,
			})
			return
		}

		v, found, err := d.Store.VideoByID(uint(id))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to fetch video for selection", zap.Error(err))
			return
		}

		if !found {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Video not found",
				"requestID": requestID,
			})
			return
		}

		candidates := d.Pipeline.GenerateSelectionThumbnails(v.FilePath, v.Filename, count)
		c.JSON(http.StatusOK, gin.H{"candidates": candidates})
		return
	}

	// Pre-commit flow: the client sends the file before the actual
	// upload so it can pick a frame first
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Provide either video_id or a file",
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

	session := uuid.NewString()
	temp := filepath.Join(os.TempDir(), session+"_"+filepath.Base(fh.Filename))

	out, err := os.Create(temp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create temporary selection file", zap.Error(err))
		return
	}

	_, err = io.Copy(out, f)
	out.Close()
	if err != nil {
		os.Remove(temp)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to buffer selection upload", zap.Error(err))
		return
	}
	defer os.Remove(temp)

	candidates := d.Pipeline.GenerateSelectionThumbnails(temp, fh.Filename, count)

	c.JSON(http.StatusOK, gin.H{
		"session":    session,
		"candidates": candidates,
	})
}

var selectionNameOK = func(name string) bool {
	return strings.HasPrefix(name, "selection_") &&
		strings.Contains(name, "_thumb_") &&
		strings.HasSuffix(name, ".jpg") &&
		name == filepath.Base(name)
}

// SelectionServe streams one candidate image back to the client.
func SelectionServe(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	name := c.Param("name")
	if !selectionNameOK(name) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid selection name",
			"requestID": requestID,
		})
		return
	}

	p := filepath.Join(d.Pipeline.ThumbDir, name)
	if _, err := os.Stat(p); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Selection candidate not found",
			"requestID": requestID,
		})
		return
	}

	c.File(p)
}
