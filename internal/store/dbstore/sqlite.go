// Package dbstore provides the SQLite-backed implementation of the store
// interface, used for the persistent viewed-file history.
package dbstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/velten/backtail/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore is a SQLite-backed implementation of store.Store
type SQLiteStore struct {
	db     *gorm.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite-backed store at the specified path.
// It initializes the database schema on first use.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&EntryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Touch creates or updates the entry for input.Path.
func (s *SQLiteStore) Touch(input *store.TouchInput) (*store.Entry, error) {
	viewedAt := input.ViewedAt
	if viewedAt.IsZero() {
		viewedAt = time.Now()
	}

	var model EntryModel
	err := s.db.Where("path = ?", input.Path).First(&model).Error
	switch {
	case err == nil:
		model.Lines = input.Lines
		model.Size = input.Size
		model.ViewedAt = viewedAt
		if err := s.db.Save(&model).Error; err != nil {
			return nil, fmt.Errorf("failed to update history entry: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		model = EntryModel{
			Path:     input.Path,
			Lines:    input.Lines,
			Size:     input.Size,
			ViewedAt: viewedAt,
		}
		if err := s.db.Create(&model).Error; err != nil {
			return nil, fmt.Errorf("failed to create history entry: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up history entry: %w", err)
	}

	return model.ToEntry(), nil
}

// List returns entries newest first, at most limit when limit > 0.
func (s *SQLiteStore) List(limit int) ([]*store.Entry, error) {
	query := s.db.Order("viewed_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []EntryModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}

	entries := make([]*store.Entry, len(models))
	for i := range models {
		entries[i] = models[i].ToEntry()
	}
	return entries, nil
}

// Get retrieves the entry for a path.
func (s *SQLiteStore) Get(path string) (*store.Entry, error) {
	var model EntryModel
	if err := s.db.Where("path = ?", path).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return model.ToEntry(), nil
}

// Delete removes the entry for a path.
func (s *SQLiteStore) Delete(path string) error {
	result := s.db.Where("path = ?", path).Delete(&EntryModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete history entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Prune removes all but the keep most recently viewed entries.
func (s *SQLiteStore) Prune(keep int) error {
	if keep <= 0 {
		return s.Clear()
	}

	var keepIDs []uint
	if err := s.db.Model(&EntryModel{}).
		Order("viewed_at DESC, id DESC").
		Limit(keep).
		Pluck("id", &keepIDs).Error; err != nil {
		return fmt.Errorf("failed to select entries to keep: %w", err)
	}
	if len(keepIDs) == 0 {
		return nil
	}

	if err := s.db.Where("id NOT IN ?", keepIDs).Delete(&EntryModel{}).Error; err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// Count returns the number of entries.
func (s *SQLiteStore) Count() (int, error) {
	var count int64
	if err := s.db.Model(&EntryModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}
	return int(count), nil
}

// Clear removes all entries.
func (s *SQLiteStore) Clear() error {
	if err := s.db.Where("1 = 1").Delete(&EntryModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
