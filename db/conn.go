// Package db contains things related to the relational store
package db

import (
	"fmt"
	"os"
	"videovault/library-api/internal/model"
	"videovault/library-api/pkg/util"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch viper.GetString("database.driver") {
	case "postgres":
		db, err = gorm.Open(postgres.Open(viper.GetString("database.dsn")))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres, %w", err)
		}
	default:
		p := viper.GetString("database.path")

		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.InDocker() {
			if _, err := os.Stat(p); err != nil {
				if os.IsNotExist(err) {
					return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/%s", p)
				}
			}
		}

		db, err = gorm.Open(sqlite.Open(p))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
		}
	}

	err = db.AutoMigrate(model.Video{}, model.Tag{}, model.VideoTag{}, model.ActivityLog{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
