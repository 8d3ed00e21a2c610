package video

import (
	"net/http"
	"strconv"
	"strings"
	"videovault/library-api/internal"
	"videovault/library-api/internal/search"
	"videovault/library-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func VideoFilter(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	tags, err := validators.ParseStringList(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	resolutions, err := validators.ParseStringList(c.Query("resolution"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	f := search.Filter{
		Tags:        tags,
		Resolutions: lowercaseAll(resolutions),
		DatePreset:  c.Query("dateFilter"),
		SortBy:      c.Query("sortBy"),
		Order:       strings.ToLower(c.Query("order")),
	}

	for query, dst := range map[string]*int{
		"durationMin": &f.DurationMin,
		"durationMax": &f.DurationMax,
		"page":        &f.Page,
		"limit":       &f.Limit,
	} {
		raw := c.Query(query)
		if raw == "" {
			continue
		}

		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid " + query + " provided",
				"requestID": requestID,
			})
			return
		}
		*dst = n
	}

	for query, dst := range map[string]*int64{
		"dateFrom": &f.DateFrom,
		"dateTo":   &f.DateTo,
	} {
		raw := c.Query(query)
		if raw == "" {
			continue
		}

		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid " + query + " provided",
				"requestID": requestID,
			})
			return
		}
		*dst = n
	}

	result, err := d.Search.Run(&f)
	if err != nil {
		// Validate distinguishes client errors from store failures
		if fErr := f.Validate(); fErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     fErr.Error(),
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Composite filter failed", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, result)
}

func lowercaseAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
