// Package model defines database models
package model

// TagRef is a tag as it appears attached to a video. Kept as a single
// ordered list so the name/color/id of one tag can never desynchronize.
type TagRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Video struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;index" json:"id"`
	Filename string `gorm:"not null" json:"filename"`

	// Human readable title derived from the filename on ingest
	Title string `gorm:"not null;index" json:"title"`

	// Absolute path of the source file. One row per distinct path
	FilePath string `gorm:"uniqueIndex;not null" json:"file_path"`
	FileSize int64  `json:"file_size"`

	// Duration in whole seconds, 0 when the prober couldn't tell
	Duration int `gorm:"default:0" json:"duration"`
	Width    int `gorm:"default:1920" json:"width"`
	Height   int `gorm:"default:1080" json:"height"`

	ThumbnailPath *string `json:"thumbnail_path"`
	PreviewPath   *string `json:"preview_path"`

	// Unix millisecond timestamps
	CreatedAt int64 `gorm:"autoCreateTime:milli;not null;index" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime:milli;not null" json:"updated_at"`

	// Populated by the repository, not a column
	Tags []TagRef `gorm:"-" json:"tags"`
}
