package tag

import (
	"errors"
	"net/http"
	"strconv"
	"videovault/library-api/internal"
	"videovault/library-api/internal/catalog"
	"videovault/library-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type tagCreateOpts struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	ParentID *uint  `json:"parent_id"`
	Category string `json:"category"`
	Level    int    `json:"level"`
}

func TagCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data tagCreateOpts
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	if data.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Tag name is required",
			"requestID": requestID,
		})
		return
	}

	t := model.Tag{
		Name:     data.Name,
		ParentID: data.ParentID,
		Level:    data.Level,
	}
	if data.Color != "" {
		t.Color = data.Color
	}
	if data.Category != "" {
		t.Category = data.Category
	}

	_, err := d.Store.CreateTag(&t)
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "A tag with this name already exists",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create tag", zap.Error(err))
		return
	}

	c.JSON(http.StatusCreated, t)
}

func TagUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := tagID(c, requestID)
	if !ok {
		return
	}

	var data catalog.TagUpdate
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	affected, err := d.Store.UpdateTag(id, &data)
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "A tag with this name already exists",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update tag", zap.Error(err))
		return
	}

	if !affected {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Tag not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": id})
}

func TagDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := tagID(c, requestID)
	if !ok {
		return
	}

	deleted, err := d.Store.DeleteTag(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete tag", zap.Error(err))
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Tag not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func TagList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	tags, err := d.Store.AllTags()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list tags", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, tags)
}

func TagHierarchy(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	flat, tree, err := d.Store.HierarchicalTags()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to build tag hierarchy", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": flat,
		"tree": tree,
	})
}

func TagsByCategory(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	category := c.Param("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No category provided",
			"requestID": requestID,
		})
		return
	}

	tags, err := d.Store.TagsByCategory(category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list tags by category", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, tags)
}

func tagID(c *gin.Context, requestID string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid tag ID",
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}
