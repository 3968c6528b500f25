// persistence/gorm_postgresql.go
package persistence

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/guessjam/models"
)

// GormPostgreSQL is the GORM-backed snapshot store.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SnapshotModel holds one persisted state blob per match.
type SnapshotModel struct {
	ID        uint   `gorm:"primaryKey"`
	MatchID   string `gorm:"uniqueIndex;not null"`
	Data      []byte `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchRecordModel archives a completed match.
type MatchRecordModel struct {
	ID           uint   `gorm:"primaryKey"`
	MatchID      string `gorm:"index;not null"`
	WinnerID     string `gorm:"not null"`
	Teams        []byte `gorm:"type:jsonb;not null"`
	SongsPlayed  int
	TotalSongs   int
	DurationSecs int
	CreatedAt    time.Time
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&SnapshotModel{},
		&MatchRecordModel{},
	)
}

func (p *GormPostgreSQL) SaveSnapshot(matchID string, blob []byte) error {
	var snapshot SnapshotModel
	result := p.db.Where("match_id = ?", matchID).First(&snapshot)

	if result.Error == gorm.ErrRecordNotFound {
		snapshot = SnapshotModel{
			MatchID: matchID,
			Data:    blob,
		}
		return p.db.Create(&snapshot).Error
	} else if result.Error != nil {
		return result.Error
	}

	snapshot.Data = blob
	snapshot.UpdatedAt = time.Now()
	return p.db.Save(&snapshot).Error
}

func (p *GormPostgreSQL) LoadSnapshot(matchID string) ([]byte, error) {
	var snapshot SnapshotModel
	if err := p.db.Where("match_id = ?", matchID).First(&snapshot).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return snapshot.Data, nil
}

func (p *GormPostgreSQL) ClearSnapshot(matchID string) error {
	return p.db.Where("match_id = ?", matchID).Delete(&SnapshotModel{}).Error
}

func (p *GormPostgreSQL) SaveMatchRecord(record *models.MatchRecord) error {
	teams, err := json.Marshal(record.Teams)
	if err != nil {
		return err
	}

	row := MatchRecordModel{
		MatchID:      record.MatchID,
		WinnerID:     record.WinnerID,
		Teams:        teams,
		SongsPlayed:  record.SongsPlayed,
		TotalSongs:   record.TotalSongs,
		DurationSecs: record.DurationSecs,
	}
	return p.db.Create(&row).Error
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
