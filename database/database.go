package database

import (
	"fmt"
	"log"

	"cartera/config"
	"cartera/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the MySQL connection, migrates the schema and seeds reference
// data (currencies, groups, account types).
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Currency{},
		&models.Group{},
		&models.AccountType{},
		&models.Account{},
		&models.Category{},
		&models.Event{},
		&models.Movement{},
	); err != nil {
		return err
	}

	if err := seedReferenceData(cfg); err != nil {
		return err
	}

	log.Println("database initialized")
	return nil
}

// seedReferenceData fills the read-only reference tables when they are empty.
// Group ids matter: the first seeded group must be the reserved transfer group
// the report config points at.
func seedReferenceData(cfg *config.Config) error {
	var currencyCount int64
	DB.Model(&models.Currency{}).Count(&currencyCount)
	if currencyCount == 0 {
		currencies := []models.Currency{
			{Code: "USD", Name: "US Dollar"},
			{Code: "EUR", Name: "Euro"},
			{Code: "COP", Name: "Colombian Peso"},
			{Code: "GBP", Name: "Pound Sterling"},
		}
		if err := DB.Create(&currencies).Error; err != nil {
			return fmt.Errorf("seed currencies: %w", err)
		}
	}

	var groupCount int64
	DB.Model(&models.Group{}).Count(&groupCount)
	if groupCount == 0 {
		groups := []models.Group{
			{ID: cfg.Report.TransferGroupID, Name: "Transfers"},
			{Name: "System"},
			{Name: "Needs"},
			{Name: "Wants"},
			{Name: "Savings"},
		}
		if err := DB.Create(&groups).Error; err != nil {
			return fmt.Errorf("seed groups: %w", err)
		}
	}

	var typeCount int64
	DB.Model(&models.AccountType{}).Count(&typeCount)
	if typeCount == 0 {
		types := []models.AccountType{
			{Name: "bank"},
			{Name: "cash"},
			{Name: "credit"},
			{Name: "savings"},
		}
		if err := DB.Create(&types).Error; err != nil {
			return fmt.Errorf("seed account types: %w", err)
		}
	}

	return nil
}

// GetDB returns the shared connection.
func GetDB() *gorm.DB {
	return DB
}
