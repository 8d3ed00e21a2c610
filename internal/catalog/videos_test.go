package catalog

import (
	"testing"
	"videovault/library-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVideoDuplicatePath(t *testing.T) {
	s := testStore(t)

	addVideo(t, s, "Clip", "/library/clip.mp4")

	_, err := s.AddVideo(&model.Video{
		Filename: "clip.mp4",
		Title:    "Clip again",
		FilePath: "/library/clip.mp4",
	})
	assert.ErrorIs(t, err, ErrDuplicatePath)

	var count int64
	require.NoError(t, s.db.Model(&model.Video{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "never two rows for one path")
}

func TestVideoByIDNotFound(t *testing.T) {
	s := testStore(t)

	v, found, err := s.VideoByID(42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestVideoByIDAggregatesTags(t *testing.T) {
	s := testStore(t)

	id := addVideo(t, s, "Clip", "/library/clip.mp4")

	action, err := s.FindOrCreateTag("action", "#ff0000")
	require.NoError(t, err)
	scifi, err := s.FindOrCreateTag("sci-fi", "#00ff00")
	require.NoError(t, err)

	_, err = s.AddTagToVideo(id, action.ID)
	require.NoError(t, err)
	_, err = s.AddTagToVideo(id, scifi.ID)
	require.NoError(t, err)

	v, found, err := s.VideoByID(id)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, v.Tags, 2)

	assert.Equal(t, "action", v.Tags[0].Name)
	assert.Equal(t, "#ff0000", v.Tags[0].Color)
	assert.Equal(t, action.ID, v.Tags[0].ID)
	assert.Equal(t, "sci-fi", v.Tags[1].Name)
}

func TestAllVideosNewestFirst(t *testing.T) {
	s := testStore(t)

	first := addVideo(t, s, "First", "/library/first.mp4")
	second := addVideo(t, s, "Second", "/library/second.mp4")

	// Force distinct creation timestamps
	require.NoError(t, s.db.Model(&model.Video{}).Where("id = ?", first).Update("created_at", 1000).Error)
	require.NoError(t, s.db.Model(&model.Video{}).Where("id = ?", second).Update("created_at", 2000).Error)

	videos, err := s.AllVideos()
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, second, videos[0].ID)
	assert.Equal(t, first, videos[1].ID)
	assert.NotNil(t, videos[0].Tags, "tags list is always present")
}

func TestUpdateVideoPartial(t *testing.T) {
	s := testStore(t)

	id := addVideo(t, s, "Clip", "/library/clip.mp4")

	thumb := "/thumbs/thumb_clip.jpg"
	affected, err := s.UpdateVideo(id, &VideoUpdate{ThumbnailPath: &thumb})
	require.NoError(t, err)
	assert.True(t, affected)

	v, _, err := s.VideoByID(id)
	require.NoError(t, err)
	require.NotNil(t, v.ThumbnailPath)
	assert.Equal(t, thumb, *v.ThumbnailPath)
	assert.Equal(t, "Clip", v.Title, "untouched fields stay")
}

func TestUpdateVideoNoFields(t *testing.T) {
	s := testStore(t)

	id := addVideo(t, s, "Clip", "/library/clip.mp4")

	affected, err := s.UpdateVideo(id, &VideoUpdate{})
	require.NoError(t, err)
	assert.False(t, affected)
}

func TestUpdateVideoMissing(t *testing.T) {
	s := testStore(t)

	title := "Renamed"
	affected, err := s.UpdateVideo(9999, &VideoUpdate{Title: &title})
	require.NoError(t, err)
	assert.False(t, affected)
}

func TestDeleteVideoCascadesLinks(t *testing.T) {
	s := testStore(t)

	id := addVideo(t, s, "Clip", "/library/clip.mp4")

	tag, err := s.FindOrCreateTag("keep", "")
	require.NoError(t, err)
	_, err = s.AddTagToVideo(id, tag.ID)
	require.NoError(t, err)

	deleted, err := s.DeleteVideo(id)
	require.NoError(t, err)
	assert.True(t, deleted)

	var links int64
	require.NoError(t, s.db.Model(&model.VideoTag{}).Where("video_id = ?", id).Count(&links).Error)
	assert.EqualValues(t, 0, links)

	// The tag itself survives
	_, found, err := s.TagByName("keep")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAddTagToVideoIdempotent(t *testing.T) {
	s := testStore(t)

	id := addVideo(t, s, "Clip", "/library/clip.mp4")
	tag, err := s.FindOrCreateTag("dupe", "")
	require.NoError(t, err)

	created, err := s.AddTagToVideo(id, tag.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.AddTagToVideo(id, tag.ID)
	require.NoError(t, err)
	assert.False(t, created, "second call reports no new link")

	var links int64
	require.NoError(t, s.db.Model(&model.VideoTag{}).Where("video_id = ? AND tag_id = ?", id, tag.ID).Count(&links).Error)
	assert.EqualValues(t, 1, links)
}

func TestRemoveTagFromVideo(t *testing.T) {
	s := testStore(t)

	id := addVideo(t, s, "Clip", "/library/clip.mp4")
	tag, err := s.FindOrCreateTag("gone", "")
	require.NoError(t, err)

	removed, err := s.RemoveTagFromVideo(id, tag.ID)
	require.NoError(t, err)
	assert.False(t, removed, "nothing to remove yet")

	_, err = s.AddTagToVideo(id, tag.ID)
	require.NoError(t, err)

	removed, err = s.RemoveTagFromVideo(id, tag.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}
