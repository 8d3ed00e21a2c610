package model

// VideoTag links a video to a tag. One row per pair, inserts are idempotent.
type VideoTag struct {
	ID        uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   uint  `gorm:"uniqueIndex:idx_video_tag;not null;index" json:"video_id"`
	TagID     uint  `gorm:"uniqueIndex:idx_video_tag;not null;index" json:"tag_id"`
	CreatedAt int64 `gorm:"autoCreateTime:milli;not null" json:"created_at"`
}
