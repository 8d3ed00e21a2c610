package internal

import (
	"videovault/library-api/internal/catalog"
	"videovault/library-api/internal/ingest"
	"videovault/library-api/internal/media"
	"videovault/library-api/internal/scanner"
	"videovault/library-api/internal/search"

	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Store    *catalog.Store
	Search   *search.Engine
	Pipeline *media.Pipeline
	Ingestor *ingest.Ingestor
	Scanner  *scanner.Scanner
}
