package domain

import "time"

// Favorite marks a file or a folder as a favorite of a user. Exactly one of
// FileID and FolderID is set. The composite unique indexes prevent the same
// target from being favorited twice by the same user.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:ux_favorites_file;uniqueIndex:ux_favorites_folder" json:"user_id"`
	FileID    *string   `gorm:"type:varchar(36);uniqueIndex:ux_favorites_file" json:"file_id"`
	FolderID  *uint     `gorm:"uniqueIndex:ux_favorites_folder" json:"folder_id"`
	CreatedAt time.Time `json:"created_at"`
}
