package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL pool. Duplicate-key violations are translated
// to gorm.ErrDuplicatedKey so the repositories can report conflicts.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return Open(cfg.DSN())
}

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return db, nil
}

// Migrate runs AutoMigrate for every model the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.CP{},
		&models.LeadStage{},
		&models.Lead{},
		&models.Notification{},
		&models.User{},
		&models.UserProfile{},
		&models.SystemLog{},
	)
}

// SeedLeadStages inserts the stage catalog in the given order, stage i at
// seq_no (i+1)*10. Existing codes keep their position. A new code whose
// seq_no is already held by another stage is an error: it cannot be placed
// without renumbering the catalog.
func SeedLeadStages(db *gorm.DB, codes []string) error {
	if len(codes) == 0 {
		return fmt.Errorf("no lead stages to seed")
	}

	var existing []models.LeadStage
	if err := db.Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load lead stages: %w", err)
	}
	seqByCode := make(map[string]int, len(existing))
	codeBySeq := make(map[int]string, len(existing))
	for _, st := range existing {
		seqByCode[st.Code] = st.SeqNo
		codeBySeq[st.SeqNo] = st.Code
	}

	stages := make([]models.LeadStage, 0, len(codes))
	for i, code := range codes {
		seq := (i + 1) * 10
		if current, ok := seqByCode[code]; ok {
			if current != seq {
				slog.Warn("lead stage keeps its existing position", "code", code, "seq_no", current, "configured_seq_no", seq)
			}
			continue
		}
		if other, ok := codeBySeq[seq]; ok {
			return fmt.Errorf("lead stage %s cannot take seq_no %d, already held by %s", code, seq, other)
		}
		stages = append(stages, models.LeadStage{Code: code, SeqNo: seq})
	}
	if len(stages) == 0 {
		return nil
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&stages)
	if result.Error != nil {
		return fmt.Errorf("failed to seed lead stages: %w", result.Error)
	}
	if result.RowsAffected < int64(len(stages)) {
		slog.Warn("some lead stages were not inserted", "expected", len(stages), "inserted", result.RowsAffected)
	}

	slog.Info("lead stages seeded", "configured", len(codes), "inserted", result.RowsAffected)
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
