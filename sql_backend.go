package usermode

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// userModeRow is one entry of the preference table.
type userModeRow struct {
	UserID    string `gorm:"primaryKey"`
	Mode      string `gorm:"not null"`
	UpdatedAt time.Time
}

func (userModeRow) TableName() string { return "user_modes" }

// tableMarker records that the table has been saved at least once, so an
// empty table can be told apart from one that was never created.
type tableMarker struct {
	Name    string `gorm:"primaryKey"`
	SavedAt time.Time
}

func (tableMarker) TableName() string { return "user_modes_meta" }

const markerName = "user_modes"

// insertBatchSize keeps each INSERT under SQLite's bound-variable limit.
const insertBatchSize = 500

// SQLBackend implements Backend using GORM.
type SQLBackend struct {
	db *gorm.DB
}

// OpenSQLite opens the SQLite database at path with GORM's logger silenced.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	return db, nil
}

// NewSQLBackend creates the tables it needs and returns a SQLBackend.
func NewSQLBackend(ctx context.Context, db *gorm.DB) (*SQLBackend, error) {
	if err := db.WithContext(ctx).AutoMigrate(&userModeRow{}, &tableMarker{}); err != nil {
		return nil, fmt.Errorf("migrating mode tables: %w", err)
	}
	return &SQLBackend{db: db}, nil
}

func (b *SQLBackend) Load(ctx context.Context) (map[string]string, error) {
	db := b.db.WithContext(ctx)

	var markers int64
	if err := db.Model(&tableMarker{}).Where("name = ?", markerName).Count(&markers).Error; err != nil {
		return nil, fmt.Errorf("reading mode table marker: %w", err)
	}
	if markers == 0 {
		return nil, fmt.Errorf("%s: %w", markerName, ErrTableNotExist)
	}

	var rows []userModeRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reading user modes: %w", err)
	}

	table := make(map[string]string, len(rows))
	for _, r := range rows {
		table[r.UserID] = r.Mode
	}
	return table, nil
}

func (b *SQLBackend) Save(ctx context.Context, table map[string]string) error {
	now := time.Now().UTC()

	rows := make([]userModeRow, 0, len(table))
	for userID, mode := range table {
		rows = append(rows, userModeRow{UserID: userID, Mode: mode, UpdatedAt: now})
	}

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&userModeRow{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(&rows, insertBatchSize).Error; err != nil {
				return err
			}
		}
		return tx.Save(&tableMarker{Name: markerName, SavedAt: now}).Error
	})
	if err != nil {
		return fmt.Errorf("saving user modes: %w", err)
	}

	return nil
}
