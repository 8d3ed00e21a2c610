// Package app contains all endpoints available
package app

import (
	"fmt"
	"os"
	"time"
	"videovault/library-api/app/root"
	"videovault/library-api/app/tag"
	"videovault/library-api/app/thumb"
	"videovault/library-api/app/video"
	"videovault/library-api/config"
	"videovault/library-api/db"
	"videovault/library-api/internal"
	"videovault/library-api/internal/catalog"
	"videovault/library-api/internal/ingest"
	"videovault/library-api/internal/media"
	"videovault/library-api/internal/scanner"
	"videovault/library-api/internal/search"
	"videovault/library-api/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	d := &internal.Deps{}

	makeLogger()

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = conn
	d.Store = catalog.NewStore(conn)
	d.Search = search.NewEngine(d.Store)

	if err := os.MkdirAll(viper.GetString("library.media_dir"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory, %w", err)
	}

	pipeline, err := media.NewPipeline(
		media.NewFFmpeg(),
		viper.GetString("library.thumbnail_dir"),
		viper.GetString("library.preview_dir"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media pipeline, %w", err)
	}
	d.Pipeline = pipeline
	d.Ingestor = ingest.NewIngestor(d.Store, pipeline)
	d.Scanner = scanner.New(d.Store, d.Ingestor)

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors"),
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Range"},
			ExposeHeaders:    []string{"Content-Length", "Content-Range"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 8 << 20

	maxUploadSize := viper.GetInt64("upload.max_size")
	rateLimit := viper.GetInt("security.rate_limit")

	rateLimiter := middleware.NewRateLimiter(rateLimit, rateLimit*2)

	m := router.Group("/api", rateLimiter.Handler())
	{
		// GET /api/heartbeat 		-> Liveness plus media tool availability
		m.GET("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })
	}

	v := m.Group("/videos")
	{
		// GET /api/videos		-> Lists all videos, newest first
		v.GET("", cacheFor(5), func(c *gin.Context) { video.VideoList(c, d) })

		// GET /api/videos/search	-> Searches videos by title relevance
		v.GET("/search", cacheFor(15), func(c *gin.Context) { video.VideoSearch(c, d) })

		// GET /api/videos/suggest	-> Autocomplete suggestions for a partial query
		v.GET("/suggest", cacheFor(15), func(c *gin.Context) { video.VideoSuggest(c, d) })

		// GET /api/videos/by-tags	-> Videos carrying every given tag
		v.GET("/by-tags", func(c *gin.Context) { video.VideoByTags(c, d) })

		// GET /api/videos/filter	-> Composite filter with pagination
		v.GET("/filter", func(c *gin.Context) { video.VideoFilter(c, d) })

		// POST /api/videos         	-> Uploads a new file and catalogs it
		v.POST("", middleware.MaxBodySize(maxUploadSize), func(c *gin.Context) { video.VideoUpload(c, d) })

		// POST /api/videos/scan	-> Scans a directory for new videos
		v.POST("/scan", func(c *gin.Context) { video.ScanDirectory(c, d) })

		// GET /api/videos/:id		-> Returns a single video with its tags
		v.GET("/:id", func(c *gin.Context) { video.VideoFetch(c, d) })

		// GET /api/videos/:id/stream	-> Serves the file with range support
		v.GET("/:id/stream", func(c *gin.Context) { video.VideoStream(c, d) })

		// GET /api/videos/:id/thumbnail-> Serves the committed thumbnail
		v.GET("/:id/thumbnail", func(c *gin.Context) { video.VideoThumbnail(c, d) })

		// GET /api/videos/:id/preview	-> Serves the preview clip
		v.GET("/:id/preview", func(c *gin.Context) { video.VideoPreview(c, d) })

		// PATCH /api/videos/:id	-> Updates title or artifact paths
		v.PATCH("/:id", func(c *gin.Context) { video.VideoEdit(c, d) })

		// DELETE /api/videos/:id	-> Deletes a video and its artifacts
		v.DELETE("/:id", func(c *gin.Context) { video.VideoDelete(c, d) })

		// POST /api/videos/:id/tags	-> Attaches a tag by name (find-or-create)
		v.POST("/:id/tags", func(c *gin.Context) { tag.VideoTagAdd(c, d) })

		// DELETE /api/videos/:id/tags/:tagID -> Detaches a tag
		v.DELETE("/:id/tags/:tagID", func(c *gin.Context) { tag.VideoTagRemove(c, d) })
	}

	t := m.Group("/tags")
	{
		// GET /api/tags		-> Lists all tags with live video counts
		t.GET("", cacheFor(5), func(c *gin.Context) { tag.TagList(c, d) })

		// GET /api/tags/hierarchy	-> Flat list plus parent/child tree
		t.GET("/hierarchy", func(c *gin.Context) { tag.TagHierarchy(c, d) })

		// GET /api/tags/category/:category -> Tags of one category
		t.GET("/category/:category", func(c *gin.Context) { tag.TagsByCategory(c, d) })

		// POST /api/tags 		-> Creates a new tag
		t.POST("", func(c *gin.Context) { tag.TagCreate(c, d) })

		// PATCH /api/tags/:id		-> Renames/recolors/recategorizes a tag
		t.PATCH("/:id", func(c *gin.Context) { tag.TagUpdate(c, d) })

		// DELETE /api/tags/:id		-> Deletes a tag and its video links
		t.DELETE("/:id", func(c *gin.Context) { tag.TagDelete(c, d) })
	}

	th := m.Group("/thumbnails")
	{
		// POST /api/thumbnails/selection -> Generates candidate frames to pick from
		th.POST("/selection", middleware.MaxBodySize(maxUploadSize), func(c *gin.Context) { thumb.SelectionGenerate(c, d) })

		// POST /api/thumbnails/commit	-> Promotes a candidate to the canonical thumbnail
		th.POST("/commit", func(c *gin.Context) { thumb.SelectionCommit(c, d) })

		// GET /api/thumbnails/selection/:name -> Serves one candidate image
		th.GET("/selection/:name", func(c *gin.Context) { thumb.SelectionServe(c, d) })
	}

	if dir := config.ScanOnStart(); dir != "" {
		go func() {
			if _, err := d.Scanner.Scan(dir); err != nil {
				zap.L().Error("Startup scan failed", zap.String("dir", dir), zap.Error(err))
			}
		}()
	}

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
