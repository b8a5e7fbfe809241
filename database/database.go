package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/newwestevents/events-backend/config"
	"github.com/newwestevents/events-backend/utils"
)

// DB is the shared gorm handle, set once by Connect.
var DB *gorm.DB

// Degraded is true when the server runs against the in-memory fallback store
// instead of Postgres. Data written in this mode is local to the process and
// lost on restart; every startup in this mode logs a warning so the
// divergence from the authoritative store is explicit, never silent.
var Degraded bool

// Connect opens Postgres when configured, otherwise falls back to an
// in-memory SQLite store so the service still serves requests in a
// explicitly degraded, local-only mode.
func Connect(cfg *config.Config) *gorm.DB {
	if !cfg.DBConfigured() {
		db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			panic(fmt.Sprintf("failed to open fallback store: %v", err))
		}
		Degraded = true
		DB = db
		utils.Log.Warn("database not configured, running on local in-memory store (degraded mode, data is not persisted)")
		return db
	}

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}

	DB = db
	utils.Log.WithField("db", cfg.DBName).Info("database connected")
	return db
}
