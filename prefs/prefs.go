// Package prefs persists player choices between runs in a small sqlite file.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Keys written by the menus
const (
	KeySelectedCar   = "SelectedCar"
	KeySelectedLevel = "SelectedLevel"
	keyBestTime      = "BestTime."
)

// ErrClosed is returned by every call after Close
var ErrClosed = errors.New("prefs store closed")

// Preference is one stored key
type Preference struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string
	UpdatedAt time.Time
}

// Store is a key/value preference table. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	db     *gorm.DB
	closed bool
	log    zerolog.Logger
}

// Open opens or creates the store at path. An empty path keeps it in memory.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := "file::memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create prefs dir: %w", err)
		}
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}
	if err := db.AutoMigrate(&Preference{}); err != nil {
		return nil, fmt.Errorf("migrate prefs: %w", err)
	}

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log.Debug().Str("path", path).Msg("preferences opened")
	return &Store{db: db, log: log}, nil
}

// String returns the value for key, or def when unset
func (s *Store) String(key, def string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return def, ErrClosed
	}
	if key == "" {
		return def, nil
	}

	var p Preference
	err := s.db.Where(&Preference{Key: key}).Limit(1).Find(&p).Error
	if err != nil {
		return def, fmt.Errorf("read %s: %w", key, err)
	}
	if p.Key == "" {
		return def, nil
	}
	return p.Value, nil
}

// SetString stores value under key, replacing any previous value
func (s *Store) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	p := Preference{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Str("value", value).Msg("preference saved")
	return nil
}

// Float returns a numeric value, or def when unset or unparsable
func (s *Store) Float(key string, def float64) (float64, error) {
	raw, err := s.String(key, "")
	if err != nil || raw == "" {
		return def, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, nil
	}
	return v, nil
}

// SetFloat stores a numeric value
func (s *Store) SetFloat(key string, value float64) error {
	return s.SetString(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// BestTime returns the fastest winning time for a level, 0 when none
func (s *Store) BestTime(level string) (float64, error) {
	return s.Float(keyBestTime+level, 0)
}

// RecordTime keeps seconds as the level's best time if it beats the stored one.
// Returns whether it did.
func (s *Store) RecordTime(level string, seconds float64) (bool, error) {
	best, err := s.BestTime(level)
	if err != nil {
		return false, err
	}
	if best > 0 && best <= seconds {
		return false, nil
	}
	if err := s.SetFloat(keyBestTime+level, seconds); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("access sql interface: %w", err)
	}
	return sqlDB.Close()
}
