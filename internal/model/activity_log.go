package model

// ActivityLog records catalog events. Written on ingest, removed with
// the video, never read back by the application itself.
type ActivityLog struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   uint   `gorm:"index" json:"video_id"`
	Action    string `gorm:"not null" json:"action"`
	Timestamp int64  `gorm:"autoCreateTime:milli;not null" json:"timestamp"`
	Metadata  string `json:"metadata"`
}
