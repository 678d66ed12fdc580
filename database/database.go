package database

import (
	"circounter/config"
	"circounter/models"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the package-level database from config.Settings and assigns it to DB.
func InitDB() error {
	db, err := Open(config.Settings)
	if err != nil {
		return err
	}
	DB = db

	log.Println("Database initialized successfully")
	return nil
}

// Open opens a GORM SQLite database according to cfg, applies connection pool settings and
// optional SQLite PRAGMAs, and runs automigrations for models.State and models.AppSetting.
// It returns an error if opening the database, obtaining the underlying sql.DB, or running the migrations fails.
func Open(cfg *config.Config) (*gorm.DB, error) {
	// Configure GORM log level
	logLevel := logger.Silent
	if cfg.LogLevel == "DEBUG" {
		logLevel = logger.Info
	}

	logWriter := log.Writer()

	dsn := buildSQLiteDSN(cfg.DatabaseURL, cfg)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: metricsLogger{Interface: logger.New(
			log.New(logWriter, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logLevel,
				IgnoreRecordNotFoundError: true,
			},
		)},
	})
	if err != nil {
		return nil, err
	}

	// Get underlying SQL DB and configure the connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	pool := currentSQLitePoolConfig(cfg)
	sqlDB.SetMaxIdleConns(pool.maxIdleConns)
	sqlDB.SetMaxOpenConns(pool.maxOpenConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(pool.maxIdleSec) * time.Second)
	sqlDB.SetConnMaxLifetime(time.Duration(pool.maxLifeSec) * time.Second)

	// Existing files keep their journal mode etc. until told otherwise
	applySQLitePragmas(db, cfg)

	// Auto-migrate database tables
	if err := db.AutoMigrate(&models.State{}, &models.AppSetting{}); err != nil {
		return nil, err
	}

	return db, nil
}

// CloseDB closes the database connection and releases resources
func CloseDB() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	log.Println("Closing database connection...")
	return sqlDB.Close()
}
