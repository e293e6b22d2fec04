package sqlconnect

import (
	"database/sql"
	"fmt"

	"kobovault/internal/config"
	"kobovault/pkg/utils"

	_ "github.com/go-sql-driver/mysql"
)

// ConnectDb opens and pings a MySQL handle. The handle is owned by the
// caller: constructed at startup, injected into whatever needs it, and
// closed at shutdown.
func ConnectDb(cfg *config.Config) (*sql.DB, error) {
	connectionString := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=false",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	utils.Logger.Info("✅ Connected to MySQL")
	return db, nil
}
