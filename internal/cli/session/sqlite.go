package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// entry is one durable session value
type entry struct {
	Scope string `gorm:"primaryKey;type:varchar(255)"`
	Name  string `gorm:"primaryKey;type:varchar(64)"`
	Value string `gorm:"type:text;not null"`
}

func (entry) TableName() string {
	return "session_entries"
}

// SQLiteStorage keeps session entries in a local SQLite database
type SQLiteStorage struct {
	db    *gorm.DB
	scope string
}

// OpenSQLiteStorage opens (and migrates) the database at path
func OpenSQLiteStorage(path, scope string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	return &SQLiteStorage{db: db, scope: scope}, nil
}

func (s *SQLiteStorage) Read(key string) (string, error) {
	var e entry
	err := s.db.Where("scope = ? AND name = ?", s.scope, key).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read session entry: %w", err)
	}
	return e.Value, nil
}

func (s *SQLiteStorage) WriteAll(entries map[string]string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for k, v := range entries {
			e := entry{Scope: s.scope, Name: k, Value: v}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error; err != nil {
				return fmt.Errorf("failed to write session entry %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStorage) DeleteAll(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.Where("scope = ? AND name IN ?", s.scope, keys).Delete(&entry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session entries: %w", err)
	}
	return nil
}

// Close releases the underlying database handle
func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
