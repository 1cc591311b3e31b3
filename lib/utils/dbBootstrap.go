package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/settings"
	"go.uber.org/zap"
)

func GetDB(retrievedSettings settings.Settings, setupLogger *zap.SugaredLogger) (db.DataStore, error) {
	switch retrievedSettings.DBType {
	case settings.SQLITE:
		filename := retrievedSettings.DBSettings.Filename
		setupLogger.Infof("Using SQLite database at %s", filename)
		if dir := filepath.Dir(filename); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return db.NewSQLiteDB(filename)
	case settings.MEMORY:
		setupLogger.Info("Using in-memory database (changes will be lost on restart)")
		return db.NewMemoryDataStore(), nil
	case settings.POSTGRES:
		setupLogger.Infof("Using Postgres database at %s with database %s", retrievedSettings.DBSettings.Host, retrievedSettings.DBSettings.Database)
		return db.NewPostgresDB(db.PostgresOptions{
			Username: retrievedSettings.DBSettings.User,
			Password: retrievedSettings.DBSettings.Password,
			Host:     retrievedSettings.DBSettings.Host,
			Database: retrievedSettings.DBSettings.Database,
			Port:     retrievedSettings.DBSettings.Port,
		})
	}
	return nil, errors.New("unsupported database type")
}
