package domain

import "time"

// File represents an uploaded file's metadata. The ID is a UUID that doubles
// as the object key in the blob store; deleting a File row implies deleting
// the identically-keyed blob. A nil FolderID means the file sits at the
// owner's root.
type File struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Filename   string     `gorm:"not null" json:"filename"`
	MimeType   string     `json:"mime_type"`
	Size       int64      `json:"size"`
	OwnerID    uint       `gorm:"not null;index" json:"owner_id"`
	FolderID   *uint      `gorm:"index" json:"folder_id"`
	UploadTime time.Time  `json:"upload_time"`
	ModifiedAt *time.Time `json:"date_modified"`
}
