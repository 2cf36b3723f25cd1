package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// tokenRecord is one row per stored key.
type tokenRecord struct {
	Key       string `gorm:"column:token_key;primaryKey"`
	Value     string `gorm:"column:token_value;not null"`
	UpdatedAt time.Time
}

func (tokenRecord) TableName() string {
	return "session_tokens"
}

type sqliteStore struct {
	db *gorm.DB
}

// OpenSQLite opens the database at dsn with gorm's logging silenced.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("[tokenstore OpenSQLite] opening %s: %w", dsn, err)
	}
	return db, nil
}

// NewSQLite builds a SQLite-backed token store and migrates its table.
func NewSQLite(db *gorm.DB) (Store, error) {
	if db == nil {
		return nil, errors.New("[tokenstore NewSQLite] database handle required")
	}
	if err := db.AutoMigrate(&tokenRecord{}); err != nil {
		return nil, fmt.Errorf("[tokenstore NewSQLite] migrating: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) GetItem(ctx context.Context, key string) (string, error) {
	var rec tokenRecord
	err := s.db.WithContext(ctx).Where("token_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

func (s *sqliteStore) SetItem(ctx context.Context, key, value string) error {
	return upsert(s.db.WithContext(ctx), key, value)
}

func (s *sqliteStore) RemoveItem(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("token_key = ?", key).Delete(&tokenRecord{}).Error
}

func (s *sqliteStore) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return values, nil
	}
	var recs []tokenRecord
	if err := s.db.WithContext(ctx).Where("token_key IN ?", keys).Find(&recs).Error; err != nil {
		return nil, err
	}
	for _, rec := range recs {
		values[rec.Key] = rec.Value
	}
	return values, nil
}

func (s *sqliteStore) MultiSet(ctx context.Context, items map[string]string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range items {
			if err := upsert(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *sqliteStore) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("token_key IN ?", keys).Delete(&tokenRecord{}).Error
}

func (s *sqliteStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_value", "updated_at"}),
	}).Create(&tokenRecord{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}
