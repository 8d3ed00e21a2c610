package catalog

import (
	"errors"
	"strings"
	"videovault/library-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddVideo inserts a new video row and returns its ID. The file path is
// unique across the library; inserting a known path fails with
// ErrDuplicatePath so the caller can route to an update instead.
func (s *Store) AddVideo(v *model.Video) (uint, error) {
	err := s.db.Create(v).Error
	if err != nil {
		// The constraint violation is the authoritative de-duplication
		// signal, pre-checks only make the error message nicer
		if isUniqueViolation(err) {
			return 0, ErrDuplicatePath
		}
		return 0, err
	}

	return v.ID, nil
}

// VideoByPath looks a video up by its absolute file path.
func (s *Store) VideoByPath(p string) (*model.Video, bool, error) {
	var v model.Video

	err := s.db.Where("file_path = ?", p).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &v, true, nil
}

// VideoByID returns a video with its tags aggregated. Absence is reported
// through the bool, not an error.
func (s *Store) VideoByID(id uint) (*model.Video, bool, error) {
	var v model.Video

	err := s.db.First(&v, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if err := s.attachTags(&v); err != nil {
		return nil, false, err
	}

	return &v, true, nil
}

// AllVideos returns every video, newest first, tags attached.
func (s *Store) AllVideos() ([]model.Video, error) {
	var videos []model.Video

	err := s.db.Order("created_at desc").Find(&videos).Error
	if err != nil {
		return nil, err
	}

	if err := s.AttachTags(videos); err != nil {
		return nil, err
	}

	return videos, nil
}

// VideoUpdate lists the fields a caller may change. Nil means untouched.
type VideoUpdate struct {
	Title         *string `json:"title,omitempty"`
	Filename      *string `json:"filename,omitempty"`
	FilePath      *string `json:"file_path,omitempty"`
	FileSize      *int64  `json:"file_size,omitempty"`
	Duration      *int    `json:"duration,omitempty"`
	Width         *int    `json:"width,omitempty"`
	Height        *int    `json:"height,omitempty"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	PreviewPath   *string `json:"preview_path,omitempty"`
}

func (u *VideoUpdate) fields() map[string]any {
	m := map[string]any{}

	if u.Title != nil {
		m["title"] = *u.Title
	}
	if u.Filename != nil {
		m["filename"] = *u.Filename
	}
	if u.FilePath != nil {
		m["file_path"] = *u.FilePath
	}
	if u.FileSize != nil {
		m["file_size"] = *u.FileSize
	}
	if u.Duration != nil {
		m["duration"] = *u.Duration
	}
	if u.Width != nil {
		m["width"] = *u.Width
	}
	if u.Height != nil {
		m["height"] = *u.Height
	}
	if u.ThumbnailPath != nil {
		m["thumbnail_path"] = *u.ThumbnailPath
	}
	if u.PreviewPath != nil {
		m["preview_path"] = *u.PreviewPath
	}

	return m
}

// UpdateVideo applies only the provided fields and reports whether a row
// was affected. updated_at is bumped by gorm on any change.
func (s *Store) UpdateVideo(id uint, u *VideoUpdate) (bool, error) {
	fields := u.fields()
	if len(fields) == 0 {
		return false, nil
	}

	res := s.db.Model(&model.Video{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// DeleteVideo removes a video together with its tag links and activity
// rows. The link cleanup is done in the same transaction instead of
// relying on the driver's foreign key enforcement.
func (s *Store) DeleteVideo(id uint) (bool, error) {
	var affected int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&model.VideoTag{}).Error; err != nil {
			return err
		}

		if err := tx.Where("video_id = ?", id).Delete(&model.ActivityLog{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Video{}, id)
		if res.Error != nil {
			return res.Error
		}

		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// AttachTags populates the Tags list of every given video with a single
// pair of queries, ordered by link creation.
func (s *Store) AttachTags(videos []model.Video) error {
	if len(videos) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(videos))
	for i := range videos {
		ids = append(ids, videos[i].ID)
	}

	type row struct {
		VideoID uint
		TagID   uint
		Name    string
		Color   string
	}

	var rows []row
	err := s.db.
		Table("video_tags").
		Select("video_tags.video_id, tags.id as tag_id, tags.name, tags.color").
		Joins("JOIN tags ON tags.id = video_tags.tag_id").
		Where("video_tags.video_id IN ?", ids).
		Order("video_tags.id").
		Scan(&rows).
		Error
	if err != nil {
		return err
	}

	byVideo := make(map[uint][]model.TagRef, len(videos))
	for _, r := range rows {
		byVideo[r.VideoID] = append(byVideo[r.VideoID], model.TagRef{
			ID:    r.TagID,
			Name:  r.Name,
			Color: r.Color,
		})
	}

	for i := range videos {
		if refs, ok := byVideo[videos[i].ID]; ok {
			videos[i].Tags = refs
		} else {
			videos[i].Tags = []model.TagRef{}
		}
	}

	return nil
}

func (s *Store) attachTags(v *model.Video) error {
	one := []model.Video{*v}
	if err := s.AttachTags(one); err != nil {
		return err
	}

	v.Tags = one[0].Tags
	return nil
}

// AddTagToVideo links a tag to a video. Inserting an existing pair is a
// no-op and reported through the bool.
func (s *Store) AddTagToVideo(videoID, tagID uint) (bool, error) {
	link := model.VideoTag{VideoID: videoID, TagID: tagID}

	err := s.db.Create(&link).Error
	if err != nil {
		if isUniqueViolation(err) {
			zap.L().Debug("Tag already linked to video",
				zap.Uint("video_id", videoID),
				zap.Uint("tag_id", tagID))
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// RemoveTagFromVideo unlinks a tag and reports whether a link existed.
func (s *Store) RemoveTagFromVideo(videoID, tagID uint) (bool, error) {
	res := s.db.
		Where("video_id = ? AND tag_id = ?", videoID, tagID).
		Delete(&model.VideoTag{})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// LogActivity appends an activity row. Failures are logged and swallowed,
// the log is informational only.
func (s *Store) LogActivity(videoID uint, action, metadata string) {
	entry := model.ActivityLog{VideoID: videoID, Action: action, Metadata: metadata}

	if err := s.db.Create(&entry).Error; err != nil {
		zap.L().Warn("Failed to write activity log", zap.Error(err))
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
