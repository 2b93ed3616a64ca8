package client

import (
	"billing-checkout/internal/model"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDBClient opens the platform database. "mysql://" DSNs use the MySQL
// driver, "sqlite://" DSNs (or plain file paths) use SQLite.
func InitDBClient(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(databaseURL, "mysql://"):
		dialector = mysql.Open(strings.TrimPrefix(databaseURL, "mysql://"))
	case strings.HasPrefix(databaseURL, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	default:
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderMeta{},
		&model.OrderNote{},
		&model.RecurringOrder{},
		&model.CartItem{},
		&model.UserMeta{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}
