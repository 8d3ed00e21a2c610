package catalog

import (
	"path/filepath"
	"testing"
	"videovault/library-api/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.Video{}, model.Tag{}, model.VideoTag{}, model.ActivityLog{}))

	return NewStore(db)
}

func addVideo(t *testing.T, s *Store, title, path string) uint {
	t.Helper()

	id, err := s.AddVideo(&model.Video{
		Filename: filepath.Base(path),
		Title:    title,
		FilePath: path,
		FileSize: 1024,
		Duration: 60,
		Width:    1920,
		Height:   1080,
	})
	require.NoError(t, err)

	return id
}
