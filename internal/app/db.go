package app

import (
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/connection"

	"gorm.io/gorm"
)

// openDatabase membuka koneksi Postgres dari environment. Dipakai oleh API
// server, outbox worker, dan consumer supaya konfigurasinya satu pintu.
func openDatabase() (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

// waitForShutdown blok sampai proses menerima SIGINT/SIGTERM.
func waitForShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}
