package model

type Tag struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	// Display color shown by the client, hex string like #4f9dff
	Color string `gorm:"default:#808080" json:"color"`

	// Self-referential hierarchy. Children are promoted to roots when the
	// parent is deleted, never cascade-deleted
	ParentID *uint  `json:"parent_id"`
	Category string `gorm:"default:custom;index" json:"category"`

	// 1 = root, 2 = child
	Level int `gorm:"default:1" json:"level"`

	CreatedAt int64 `gorm:"autoCreateTime:milli;not null" json:"created_at"`

	// Computed live from video_tags on listing, not a column
	VideoCount int64 `gorm:"-" json:"video_count"`
}

// TagNode is a tag that owns its children, used for the hierarchy view.
type TagNode struct {
	Tag
	Children []Tag `json:"children"`
}
