package domain

import "time"

// Folder represents a directory in the file system. Folders form a forest per
// owner: a nil ParentID marks a root folder, otherwise ParentID points at
// another folder owned by the same user. OwnerID is stored on every row on
// purpose; each traversal step re-checks ownership instead of trusting the
// parent link.
type Folder struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	OwnerID    uint       `gorm:"not null;index" json:"owner_id"`
	ParentID   *uint      `gorm:"index" json:"parent_id"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"date_modified"`

	// ItemCount is the number of direct files plus direct subfolders. It is
	// computed per request and never persisted.
	ItemCount int64 `gorm:"-" json:"item_count"`
}
