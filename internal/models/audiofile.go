package models

import "time"

type AudioFile struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	FileName    string `gorm:"column:file_name;type:text" json:"file_name"`
	StoragePath string `gorm:"column:storage_path;type:text" json:"storage_path"`

	FileSize int64  `gorm:"column:file_size;type:bigint" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (AudioFile) TableName() string { return "audio_files" }
