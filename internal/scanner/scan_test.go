package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"videovault/library-api/internal/catalog"
	"videovault/library-api/internal/ingest"
	"videovault/library-api/internal/media"
	"videovault/library-api/internal/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noProbe struct{}

func (noProbe) Available() bool                            { return false }
func (noProbe) Duration(string) (float64, error)           { return 0, nil }
func (noProbe) Dimensions(string) (int, int, error)        { return 0, 0, nil }
func (noProbe) ExtractFrame(string, float64, string) error { return nil }
func (noProbe) ExtractClip(string, float64, float64, string) error {
	return nil
}

func testScanner(t *testing.T) (*Scanner, *catalog.Store) {
	t.Helper()

	dir := t.TempDir()

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Video{}, model.Tag{}, model.VideoTag{}, model.ActivityLog{}))

	store := catalog.NewStore(db)

	pipeline, err := media.NewPipeline(noProbe{}, filepath.Join(dir, "thumbs"), filepath.Join(dir, "previews"))
	require.NoError(t, err)

	return New(store, ingest.NewIngestor(store, pipeline)), store
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
}

func TestScanWalksRecursively(t *testing.T) {
	s, store := testScanner(t)

	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp4"))
	touch(t, filepath.Join(root, "nested", "deep", "b.mkv"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "cover.jpg"))

	sum, err := s.Scan(root)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Added)
	assert.Equal(t, 0, sum.Skipped)
	assert.Equal(t, 0, sum.Failed)

	videos, err := store.AllVideos()
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestScanSkipsKnownFiles(t *testing.T) {
	s, _ := testScanner(t)

	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp4"))
	touch(t, filepath.Join(root, "b.mp4"))

	first, err := s.Scan(root)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Added)

	second, err := s.Scan(root)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 2, second.Skipped)
}

func TestScanIsCaseInsensitiveOnExtensions(t *testing.T) {
	s, _ := testScanner(t)

	root := t.TempDir()
	touch(t, filepath.Join(root, "UPPER.MP4"))

	sum, err := s.Scan(root)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Added)
}

func TestScanHonorsConfiguredExtensions(t *testing.T) {
	viper.Set("library.scan_extensions", []string{".mkv"})
	t.Cleanup(func() { viper.Set("library.scan_extensions", []string{}) })

	s, _ := testScanner(t)

	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp4"))
	touch(t, filepath.Join(root, "b.mkv"))

	sum, err := s.Scan(root)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Added, "only the configured extension is picked up")
}

func TestScanEmptyDirectory(t *testing.T) {
	s, _ := testScanner(t)

	sum, err := s.Scan(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, sum.Added)
	assert.Zero(t, sum.Skipped)
	assert.Zero(t, sum.Failed)
}

func TestScanMissingRoot(t *testing.T) {
	s, _ := testScanner(t)

	sum, err := s.Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed, "an unreadable root is a counted failure, not an abort")
}
