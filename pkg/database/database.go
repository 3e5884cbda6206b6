package database

import (
	"fmt"
	"log/slog"
	"time"

	"go-wigstore-api/internal/model"
	"go-wigstore-api/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSQLiteDSN = "wigstore.db"

// Connect opens the store database and configures the pool. The caller owns
// the handle and must Close it at shutdown.
func Connect(driver, dsn string, verbose bool) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if verbose {
		level = gormlogger.Info
	}
	newLogger := gormlogger.New(
		logger.StdLogger(slog.LevelInfo),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newLogger,
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// a single writer avoids "database is locked" under concurrent checkouts
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	logger.L.Info("database connection established", "driver", driver)
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite", "":
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // pgbouncer/transaction pooler friendly
		}), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("database: unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql)", driver)
	}
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Order{},
		&model.OrderItem{},
		&model.StockMovement{},
		&model.Privilege{},
		&model.Role{},
		&model.User{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
