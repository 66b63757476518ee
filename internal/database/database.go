package database

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/intima/internal/logger"
	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/utils"
)

const sqlitePrefix = "sqlite://"

// Open connects to the database named by dsn. A sqlite:// prefix selects the
// embedded driver; anything else is treated as a postgres URL and the target
// database is created when missing.
func Open(dsn string, level gormlogger.LogLevel) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	}

	if strings.HasPrefix(dsn, sqlitePrefix) {
		conn, err := gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite allows a single writer; in-memory databases are also per connection.
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return conn, nil
	}

	if err := ensureDatabase(dsn); err != nil {
		return nil, fmt.Errorf("ensure database: %w", err)
	}

	conn, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return conn, nil
}

// Connect opens the database and runs migrations, exiting on failure.
func Connect(dsn string, log *logger.Logger) *gorm.DB {
	conn, err := Open(dsn, log.GormLevel())
	if err != nil {
		log.Fatal("[Database] failed to connect: %v", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("[Database] migration failed: %v", err)
	}

	log.Info("[Database] connected (%s)", conn.Dialector.Name())
	return conn
}

// Migrate creates or updates every table the service owns.
func Migrate(conn *gorm.DB) error {
	migrations := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Banner{},
		&models.Popup{},
		&models.Order{},
		&models.OrderItem{},
		&models.StoreSettings{},
	}

	for _, migration := range migrations {
		if err := conn.AutoMigrate(migration); err != nil {
			return err
		}
	}

	return nil
}

// EnsureAdmin creates the bootstrap admin account if no user with that phone
// exists yet. Empty credentials skip seeding.
func EnsureAdmin(conn *gorm.DB, phone, password string) (bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return false, nil
	}

	var existing models.User
	err := conn.Where("phone = ?", phone).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}

	admin := models.User{
		Phone:        phone,
		DisplayName:  "Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := conn.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
