package video

import (
	"net/http"
	"strconv"
	"strings"
	"videovault/library-api/internal"
	"videovault/library-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func VideoSearch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	searchQuery := strings.TrimSpace(c.Query("query"))
	if searchQuery == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No search query provided",
			"requestID": requestID,
		})
		return
	}

	limit, page, ok := pagination(c, requestID)
	if !ok {
		return
	}

	results, err := d.Search.SearchByTitle(searchQuery, limit, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to find videos by search query", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, results)
}

func VideoSuggest(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 50 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid limit provided",
			"requestID": requestID,
		})
		return
	}

	suggestions, err := d.Search.Suggest(c.Query("query"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to build suggestions", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func VideoByTags(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	tags, err := validators.ParseStringList(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	results, err := d.Search.SearchByTags(tags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to find videos by tags", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, results)
}

func pagination(c *gin.Context, requestID string) (limit, page int, ok bool) {
	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 250 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid limit provided",
			"requestID": requestID,
		})
		return 0, 0, false
	}

	pageStr := c.DefaultQuery("page", "0")
	page, err = strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid page provided",
			"requestID": requestID,
		})
		return 0, 0, false
	}

	return limit, page, true
}
