package dbstore

import (
	"time"

	"github.com/velten/backtail/internal/store"
)

// EntryModel represents a viewed-file history entry in the database.
type EntryModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Path      string    `gorm:"size:4096;not null;uniqueIndex"` // Absolute file path
	Lines     int       `gorm:"not null"`                       // Line count requested at last view
	Size      int64     `gorm:"not null"`                       // File size at last view
	ViewedAt  time.Time `gorm:"not null;index"`                 // Last view time, newest-first ordering
	CreatedAt time.Time `gorm:"autoCreateTime"`                 // GORM managed timestamp
	UpdatedAt time.Time `gorm:"autoUpdateTime"`                 // GORM managed timestamp
}

// TableName returns the table name for EntryModel
func (EntryModel) TableName() string {
	return "entries"
}

// ToEntry converts the GORM model to a store.Entry
func (m *EntryModel) ToEntry() *store.Entry {
	return &store.Entry{
		ID:        m.ID,
		Path:      m.Path,
		Lines:     m.Lines,
		Size:      m.Size,
		ViewedAt:  m.ViewedAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
