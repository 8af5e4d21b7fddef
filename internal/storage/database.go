package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qna_web/internal/models"
	"qna_web/pkg/config"
)

// Database 包裝 gorm.DB，讓 repository 不直接依賴 driver
type Database struct {
	*gorm.DB
}

// Open 依照設定選擇 driver 建立連線
func Open(cfg config.DBConfig, log zerolog.Logger) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger:         NewGormLogger(log, cfg.LogQueries),
		TranslateError: true,
	}

	var (
		db  *Database
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = NewPostgresDB(cfg, gormCfg)
	case "sqlite":
		db, err = NewSQLiteDB(cfg.Path, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "postgres" {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	return db, nil
}

func NewPostgresDB(cfg config.DBConfig, gormCfg *gorm.Config) (*Database, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{DB: db}, nil
}

// NewSQLiteDB 開啟 sqlite 檔案，path 為 ":memory:" 時使用記憶體資料庫
func NewSQLiteDB(path string, gormCfg *gorm.Config) (*Database, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{TranslateError: true}
	}

	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite 同時只能有一個寫入者；記憶體資料庫每條連線都是獨立的資料庫
	sqlDB.SetMaxOpenConns(1)

	return &Database{DB: db}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *Database) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate 自動遷移資料庫結構
// 推薦的中介表要先註冊成自訂模型，才會使用複合主鍵
func (db *Database) AutoMigrate() error {
	if err := db.DB.SetupJoinTable(&models.Question{}, "Voters", &models.QuestionVoter{}); err != nil {
		return fmt.Errorf("setup question_voter: %w", err)
	}
	if err := db.DB.SetupJoinTable(&models.Answer{}, "Voters", &models.AnswerVoter{}); err != nil {
		return fmt.Errorf("setup answer_voter: %w", err)
	}
	return db.DB.AutoMigrate(models.All()...)
}
